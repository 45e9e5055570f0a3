package engine

import (
	"context"
	"fmt"
	"strings"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// Display is the read-only renderer kind for one field value. The
// classification mirrors the editor's widget inference so display and edit
// stay in visual parity.
type Display int

const (
	DisplayText Display = iota
	DisplayBadge
	DisplayBool
	DisplayLink
	DisplayImage
)

// badgeStyles is the fixed status-value-to-style table used for enum
// badges. Unknown values fall back to "neutral".
var badgeStyles = map[string]string{
	"DRAFT":      "gray",
	"PUBLISHED":  "green",
	"CLOSED":     "amber",
	"ARCHIVED":   "gray",
	"APPLIED":    "blue",
	"SCREENING":  "amber",
	"INTERVIEW":  "purple",
	"OFFER":      "green",
	"REJECTED":   "red",
	"HIRED":      "green",
	"CANDIDATE":  "blue",
	"RECRUITER":  "purple",
	"ADMIN":      "red",
	"FULL_TIME":  "green",
	"PART_TIME":  "blue",
	"CONTRACT":   "amber",
	"INTERNSHIP": "purple",
}

// BadgeStyle returns the style name for an enum value.
func BadgeStyle(value string) string {
	if style, ok := badgeStyles[value]; ok {
		return style
	}
	return "neutral"
}

// DisplayFor classifies a field for read-only rendering.
func DisplayFor(desc *resource.Descriptor, relations *resource.RelationMap, field string, value any) Display {
	if len(desc.EnumFor(field)) > 0 {
		return DisplayBadge
	}
	if relations != nil && relations.Lookup(field) != nil {
		return DisplayLink
	}
	if _, ok := value.(bool); ok || strings.HasPrefix(field, "is") {
		return DisplayBool
	}
	if s, ok := value.(string); ok && IsImageField(field) &&
		(strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")) {
		return DisplayImage
	}
	return DisplayText
}

// FieldDisplay is one rendered field of a detail view.
type FieldDisplay struct {
	Name     string
	Display  Display
	Rendered string
}

// DetailView loads, renders and deletes a single record. Editing reuses
// the Record Editor; the view only decides how values read.
type DetailView struct {
	client    *api.Client
	desc      *resource.Descriptor
	relations *resource.RelationMap
}

func NewDetailView(client *api.Client, desc *resource.Descriptor, relations *resource.RelationMap) *DetailView {
	return &DetailView{client: client, desc: desc, relations: relations}
}

// Load fetches one record by its primary key values.
func (d *DetailView) Load(ctx context.Context, pks []string) (api.Row, error) {
	return d.client.Get(ctx, d.desc.Path, pks)
}

// Delete removes the record.
func (d *DetailView) Delete(ctx context.Context, pks []string) error {
	return d.client.Delete(ctx, d.desc.Path, pks)
}

// Fields renders every non-hidden field of a row in column order, then any
// remaining fields the backend included.
func (d *DetailView) Fields(row api.Row) []FieldDisplay {
	var out []FieldDisplay
	seen := make(map[string]bool)

	for _, col := range d.desc.Columns {
		seen[col] = true
		if HiddenField(col) {
			continue
		}
		v, ok := row[col]
		if !ok {
			continue
		}
		out = append(out, d.renderField(col, v))
	}
	for name, v := range row {
		if seen[name] || HiddenField(name) {
			continue
		}
		if _, nested := v.(map[string]any); nested {
			continue
		}
		if _, nested := v.([]any); nested {
			continue
		}
		out = append(out, d.renderField(name, v))
	}
	return out
}

func (d *DetailView) renderField(name string, v any) FieldDisplay {
	display := DisplayFor(d.desc, d.relations, name, v)
	return FieldDisplay{Name: name, Display: display, Rendered: d.render(display, name, v)}
}

func (d *DetailView) render(display Display, name string, v any) string {
	switch display {
	case DisplayBadge:
		value := Stringify(v)
		return fmt.Sprintf("[%s:%s]", BadgeStyle(value), value)
	case DisplayBool:
		if b, ok := v.(bool); ok && b {
			return "yes"
		}
		if s := Stringify(v); s == "true" || s == "1" {
			return "yes"
		}
		return "no"
	case DisplayLink:
		rel := d.relations.Lookup(name)
		return fmt.Sprintf("-> %s/%s", rel.TargetKey, Stringify(v))
	case DisplayImage:
		return fmt.Sprintf("(image) %s", Stringify(v))
	default:
		return Stringify(v)
	}
}
