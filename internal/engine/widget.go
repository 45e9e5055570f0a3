package engine

import (
	"regexp"
	"strings"

	"admin-console/internal/resource"
)

// Widget is the input control kind the editor renders for one field.
type Widget int

const (
	WidgetText Widget = iota
	WidgetEnumSelect
	WidgetRelationSelect
	WidgetNumber
	WidgetCheckbox
	WidgetTextarea
)

func (w Widget) String() string {
	switch w {
	case WidgetEnumSelect:
		return "enum-select"
	case WidgetRelationSelect:
		return "relation-select"
	case WidgetNumber:
		return "number"
	case WidgetCheckbox:
		return "checkbox"
	case WidgetTextarea:
		return "textarea"
	default:
		return "text"
	}
}

var (
	imagePattern    = regexp.MustCompile(`(?i)avatar|logo|cover|image|photo|picture|icon`)
	textareaPattern = regexp.MustCompile(`(?i)description|summary|letter|content`)
	numericPattern  = regexp.MustCompile(`(?i)salary|price|amount|count|quantity|rating|year`)
)

// WidgetFor classifies a field into an input widget. The rules are ordered
// and the first match wins; an enum-declared field must resolve to the enum
// select even when its current value looks boolean or numeric.
func WidgetFor(desc *resource.Descriptor, field string, value any, relationOptions []RelationOption) Widget {
	if len(desc.EnumFor(field)) > 0 {
		return WidgetEnumSelect
	}
	if len(relationOptions) > 0 {
		return WidgetRelationSelect
	}
	if isNumeric(value) {
		return WidgetNumber
	}
	// create forms seed every field to "", so numeric-named fields keep
	// their number widget (and wire coercion) before a value exists
	if numericPattern.MatchString(field) {
		return WidgetNumber
	}
	if _, ok := value.(bool); ok || strings.HasPrefix(field, "is") {
		return WidgetCheckbox
	}
	if textareaPattern.MatchString(field) {
		return WidgetTextarea
	}
	return WidgetText
}

// IsImageField reports whether the field name indicates an image URL; such
// fields additionally get an upload control alongside their text input.
func IsImageField(field string) bool {
	return imagePattern.MatchString(field)
}

// HiddenField reports whether a field is excluded from both display and
// edit regardless of the resource's allowed fields. Covers credential
// material the admin console must never surface.
func HiddenField(field string) bool {
	lower := strings.ToLower(field)
	return strings.Contains(lower, "password") ||
		strings.Contains(lower, "hash") ||
		lower == "salt"
}

func isNumeric(v any) bool {
	switch v.(type) {
	case int, int32, int64, float32, float64:
		return true
	default:
		return false
	}
}
