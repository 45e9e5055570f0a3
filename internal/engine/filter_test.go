package engine

import (
	"testing"

	"admin-console/internal/api"
)

func sampleRows() []api.Row {
	return []api.Row{
		{"id": "j-1", "title": "Backend Engineer", "status": "PUBLISHED", "salaryMin": float64(70000)},
		{"id": "j-2", "title": "Frontend Engineer", "status": "DRAFT", "salaryMin": float64(60000)},
		{"id": "j-3", "title": "Data Analyst", "status": "PUBLISHED", "salaryMin": float64(50000)},
	}
}

func TestApplyClientFilter_EmptyReturnsAll(t *testing.T) {
	rows := sampleRows()
	got := ApplyClientFilter(rows, jobsDescriptor(), Filter{})
	if len(got) != 3 {
		t.Fatalf("expected all 3 rows, got %d", len(got))
	}
}

func TestApplyClientFilter_SearchCaseInsensitive(t *testing.T) {
	got := ApplyClientFilter(sampleRows(), jobsDescriptor(), Filter{Search: "ENGINEER"})
	if len(got) != 2 {
		t.Fatalf("expected 2 rows matching 'ENGINEER', got %d", len(got))
	}
	for _, row := range got {
		if row["id"] == "j-3" {
			t.Fatal("Data Analyst should not match 'ENGINEER'")
		}
	}
}

func TestApplyClientFilter_SearchMatchesNumericColumn(t *testing.T) {
	got := ApplyClientFilter(sampleRows(), jobsDescriptor(), Filter{Search: "70000"})
	if len(got) != 1 || got[0]["id"] != "j-1" {
		t.Fatalf("expected only j-1 to match 70000, got %v", got)
	}
}

func TestApplyClientFilter_ColumnEquality(t *testing.T) {
	got := ApplyClientFilter(sampleRows(), jobsDescriptor(), Filter{Column: "status", Value: "PUBLISHED"})
	if len(got) != 2 {
		t.Fatalf("expected 2 PUBLISHED rows, got %d", len(got))
	}
}

func TestApplyClientFilter_SearchAndColumnCombineWithAnd(t *testing.T) {
	got := ApplyClientFilter(sampleRows(), jobsDescriptor(), Filter{
		Search: "engineer", Column: "status", Value: "PUBLISHED",
	})
	if len(got) != 1 || got[0]["id"] != "j-1" {
		t.Fatalf("expected only j-1, got %v", got)
	}
}

func TestApplyClientFilter_ColumnWithoutValueIsNoOp(t *testing.T) {
	got := ApplyClientFilter(sampleRows(), jobsDescriptor(), Filter{Column: "status"})
	if len(got) != 3 {
		t.Fatalf("column filter without value must not narrow, got %d rows", len(got))
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{float64(23), "23"},
		{float64(2.5), "2.5"},
	}
	for _, tc := range cases {
		if got := Stringify(tc.in); got != tc.want {
			t.Fatalf("Stringify(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
