package engine

import (
	"fmt"
	"strings"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// Filter is the client-side narrowing applied to the currently fetched page:
// a free-text search over all visible columns plus an optional single-column
// equality match. Both combine with AND semantics. It never reaches the
// server; list metadata still reflects the unfiltered page.
type Filter struct {
	Search string
	Column string
	Value  string
}

func (f Filter) Empty() bool {
	return f.Search == "" && (f.Column == "" || f.Value == "")
}

// ApplyClientFilter returns the rows matching the filter. Search matches
// case-insensitively against the string form of every visible column; the
// column/value pair is an exact match on one field.
func ApplyClientFilter(rows []api.Row, desc *resource.Descriptor, f Filter) []api.Row {
	if f.Empty() {
		return rows
	}
	search := strings.ToLower(f.Search)

	var out []api.Row
	for _, row := range rows {
		if search != "" && !matchesSearch(row, desc.Columns, search) {
			continue
		}
		if f.Column != "" && f.Value != "" && Stringify(row[f.Column]) != f.Value {
			continue
		}
		out = append(out, row)
	}
	return out
}

func matchesSearch(row api.Row, columns []string, search string) bool {
	for _, col := range columns {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		if strings.Contains(strings.ToLower(Stringify(v)), search) {
			return true
		}
	}
	return false
}

// Stringify renders a field value the way the list view displays it.
// nil renders as the empty string; whole floats drop the fraction so JSON
// numbers compare cleanly against user input.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
