package resource

// Descriptor declares one REST-addressable resource managed by the admin
// engine: where it lives, which fields the list view shows, which fields the
// editor may write, and how rows are identified.
type Descriptor struct {
	Key           string              `json:"key"`
	Path          string              `json:"path"`
	Label         string              `json:"label"`
	Columns       []string            `json:"columns"`
	AllowedFields []string            `json:"allowed_fields,omitempty"`
	PrimaryKeys   []string            `json:"primary_keys"`
	FieldEnums    map[string][]string `json:"field_enums,omitempty"`
}

// EditableFields returns the fields the editor may create/update. Falls
// back to Columns when AllowedFields is absent, so join tables whose
// columns are exactly their primary keys stay creatable.
func (d *Descriptor) EditableFields() []string {
	if len(d.AllowedFields) > 0 {
		return d.AllowedFields
	}
	return d.Columns
}

// IsPrimaryKey returns true if the field is part of the resource identity.
func (d *Descriptor) IsPrimaryKey(field string) bool {
	for _, pk := range d.PrimaryKeys {
		if pk == field {
			return true
		}
	}
	return false
}

// HasColumn returns true if the field appears in the list view.
func (d *Descriptor) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// EnumFor returns the declared legal values for a field, or nil.
func (d *Descriptor) EnumFor(field string) []string {
	if d.FieldEnums == nil {
		return nil
	}
	return d.FieldEnums[field]
}

// Composite returns true if the resource is identified by more than one
// field (join tables like job-skills).
func (d *Descriptor) Composite() bool {
	return len(d.PrimaryKeys) > 1
}
