package resource

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Relation declares that an ID-valued field points at another resource and
// how to render a related row as a human-readable label. LabelExpr is an
// expr-lang expression evaluated against the related row.
type Relation struct {
	Field     string // FK-shaped field name, e.g. "companyId"
	TargetKey string // resource key the field points at
	LabelExpr string

	mu   sync.Mutex
	prog *vm.Program
}

// Label evaluates the label expression against a related row. Falls back to
// the row's "id" (or an empty string) when the expression fails, so a row
// with missing label fields still renders as something selectable.
func (r *Relation) Label(row map[string]any) string {
	r.mu.Lock()
	prog := r.prog
	if prog == nil {
		var err error
		prog, err = expr.Compile(r.LabelExpr, expr.Env(map[string]any{}), expr.AllowUndefinedVariables())
		if err != nil {
			r.mu.Unlock()
			return fallbackLabel(row)
		}
		r.prog = prog
	}
	r.mu.Unlock()

	out, err := expr.Run(prog, row)
	if err != nil || out == nil {
		return fallbackLabel(row)
	}
	if s, ok := out.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", out)
}

func fallbackLabel(row map[string]any) string {
	if id, ok := row["id"]; ok && id != nil {
		return fmt.Sprintf("%v", id)
	}
	return ""
}

// RelationMap is the static mapping of FK-shaped field names to their target
// resources, shared by every descriptor (field naming is uniform across the
// data model).
type RelationMap struct {
	byField map[string]*Relation
}

// Lookup returns the relation for a field name, or nil.
func (m *RelationMap) Lookup(field string) *Relation {
	return m.byField[field]
}

// Fields returns every field name with a declared relation.
func (m *RelationMap) Fields() []string {
	fields := make([]string, 0, len(m.byField))
	for f := range m.byField {
		fields = append(fields, f)
	}
	return fields
}

// RelationFieldsOf returns the subset of the descriptor's editable fields
// that have a declared relation, in editable-field order.
func (m *RelationMap) RelationFieldsOf(d *Descriptor) []string {
	var fields []string
	for _, f := range d.EditableFields() {
		if m.Lookup(f) != nil {
			fields = append(fields, f)
		}
	}
	return fields
}

// Relations returns the shared relation map for the job-board catalogue.
func Relations() *RelationMap {
	rels := []*Relation{
		{Field: "userId", TargetKey: "users", LabelExpr: `firstName + " " + lastName + " (" + email + ")"`},
		{Field: "companyId", TargetKey: "companies", LabelExpr: `name`},
		{Field: "jobId", TargetKey: "jobs", LabelExpr: `title`},
		{Field: "skillId", TargetKey: "skills", LabelExpr: `name`},
		{Field: "categoryId", TargetKey: "categories", LabelExpr: `name`},
	}
	m := &RelationMap{byField: make(map[string]*Relation, len(rels))}
	for _, r := range rels {
		m.byField[r.Field] = r
	}
	return m
}
