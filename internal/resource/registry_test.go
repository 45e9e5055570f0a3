package resource

import "testing"

func TestCatalogue_PrimaryKeysAreVisibleColumns(t *testing.T) {
	reg := Catalogue()
	for _, desc := range reg.All() {
		if len(desc.PrimaryKeys) == 0 {
			t.Fatalf("%s: primary keys must be non-empty", desc.Key)
		}
		for _, pk := range desc.PrimaryKeys {
			if !desc.HasColumn(pk) {
				t.Fatalf("%s: primary key %s is not a visible column", desc.Key, pk)
			}
		}
	}
}

func TestRegistry_LookupByKeyAndPath(t *testing.T) {
	reg := Catalogue()
	byKey := reg.Lookup("jobskills")
	byPath := reg.Lookup("job-skills")
	if byKey == nil || byPath == nil || byKey != byPath {
		t.Fatal("key and path must resolve to the same descriptor")
	}
	if reg.Lookup("nope") != nil {
		t.Fatal("unknown identifier must return nil")
	}
}

func TestDescriptor_EditableFieldsFallback(t *testing.T) {
	d := &Descriptor{
		Key:         "x",
		Columns:     []string{"id", "name", "value"},
		PrimaryKeys: []string{"id"},
	}
	fields := d.EditableFields()
	if len(fields) != 3 || fields[0] != "id" || fields[1] != "name" || fields[2] != "value" {
		t.Fatalf("fallback editable fields = %v, want all columns", fields)
	}

	d.AllowedFields = []string{"name"}
	fields = d.EditableFields()
	if len(fields) != 1 || fields[0] != "name" {
		t.Fatalf("allowed fields must win: %v", fields)
	}
}

func TestDescriptor_JoinTableColumnsStayEditable(t *testing.T) {
	d := Catalogue().Lookup("job-skills")
	fields := d.EditableFields()
	if len(fields) != 2 || fields[0] != "jobId" || fields[1] != "skillId" {
		t.Fatalf("job-skills editable fields = %v, want both key columns", fields)
	}
}

func TestRelations_LabelTemplates(t *testing.T) {
	rels := Relations()

	user := rels.Lookup("userId")
	if user == nil || user.TargetKey != "users" {
		t.Fatal("userId relation missing")
	}
	label := user.Label(map[string]any{
		"id": "u-1", "firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com",
	})
	if label != "Ada Lovelace (ada@example.com)" {
		t.Fatalf("label = %q", label)
	}

	// a row missing label fields falls back to the id instead of erroring
	label = user.Label(map[string]any{"id": "u-9"})
	if label != "u-9" {
		t.Fatalf("fallback label = %q", label)
	}

	company := rels.Lookup("companyId")
	if got := company.Label(map[string]any{"id": "c-1", "name": "Acme"}); got != "Acme" {
		t.Fatalf("company label = %q", got)
	}
}

func TestRelations_FieldsOfDescriptor(t *testing.T) {
	rels := Relations()
	jobs := Catalogue().Lookup("jobs")
	fields := rels.RelationFieldsOf(jobs)
	if len(fields) != 1 || fields[0] != "companyId" {
		t.Fatalf("jobs relation fields = %v, want [companyId]", fields)
	}
}
