package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// Mode says whether the editor creates a new record or edits an existing one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// ErrNoRowSelected means an edit was submitted without a usable seed row
// (missing entirely, or missing a primary key field). The submit aborts
// before any network I/O; normal navigation cannot reach this state.
var ErrNoRowSelected = errors.New("no row selected")

// Editor owns one open create/edit form: the draft values for the
// resource's editable fields, widget classification per field, and the
// submit path including join-table reconciliation for jobs. The draft
// survives a failed submit so the user can correct and retry.
type Editor struct {
	client    *api.Client
	desc      *resource.Descriptor
	resolver  *Resolver
	syncer    *Synchronizer
	mode      Mode
	original  api.Row
	draft     map[string]any
	joins     map[string]map[string]bool // JoinSpec.Key -> desired counterpart IDs
	joinSpecs []JoinSpec
}

// NewEditor opens an editor. In edit mode the draft is seeded from row
// restricted to the editable fields; in create mode every field starts
// empty. For jobs, the desired skill/category ID sets are seeded from the
// row's included nested arrays.
func NewEditor(client *api.Client, desc *resource.Descriptor, resolver *Resolver, mode Mode, row api.Row) *Editor {
	e := &Editor{
		client:    client,
		desc:      desc,
		resolver:  resolver,
		syncer:    NewSynchronizer(client),
		mode:      mode,
		original:  row,
		draft:     make(map[string]any),
		joins:     make(map[string]map[string]bool),
		joinSpecs: JoinSpecsFor(desc.Key),
	}

	for _, field := range e.Fields() {
		if mode == ModeEdit && row != nil {
			e.draft[field] = seedValue(row[field])
		} else {
			e.draft[field] = ""
		}
	}

	for _, spec := range e.joinSpecs {
		e.joins[spec.Key] = seedJoinState(row, spec.Key)
	}
	return e
}

func seedValue(v any) any {
	switch v.(type) {
	case nil:
		return ""
	case bool, float64, int, int64:
		return v
	default:
		return Stringify(v)
	}
}

func seedJoinState(row api.Row, key string) map[string]bool {
	ids := make(map[string]bool)
	if row == nil {
		return ids
	}
	nested, ok := row[key].([]any)
	if !ok {
		return ids
	}
	for _, item := range nested {
		entity, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id := Stringify(entity["id"]); id != "" {
			ids[id] = true
		}
	}
	return ids
}

func (e *Editor) Mode() Mode { return e.mode }

// Fields returns the editable fields in descriptor order, with credential
// fields excluded.
func (e *Editor) Fields() []string {
	var fields []string
	for _, f := range e.desc.EditableFields() {
		if HiddenField(f) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Widget classifies one field given its current draft value and any cached
// relation options.
func (e *Editor) Widget(field string) Widget {
	var options []RelationOption
	if e.resolver != nil {
		options, _ = e.resolver.Options(field)
	}
	return WidgetFor(e.desc, field, e.draft[field], options)
}

// Get returns the current draft value for a field.
func (e *Editor) Get(field string) any {
	return e.draft[field]
}

// Set stores a new draft value for a field. String input landing on a
// field whose current value is numeric or boolean is converted, so the
// field's widget classification stays stable across edits.
func (e *Editor) Set(field string, value any) {
	current, ok := e.draft[field]
	if !ok {
		return
	}
	if s, isStr := value.(string); isStr {
		switch current.(type) {
		case float64, int, int64:
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				e.draft[field] = n
				return
			}
		case bool:
			e.draft[field] = s == "true"
			return
		}
	}
	e.draft[field] = value
}

// ApplyUpload replaces an image field's draft value with the URL a
// completed upload returned.
func (e *Editor) ApplyUpload(field, url string) {
	if IsImageField(field) {
		e.Set(field, url)
	}
}

// ToggleJoin adds or removes one counterpart ID from a join relation's
// desired set (key "skills" or "categories" on jobs). Empty IDs are
// ignored; the synchronizer must never be asked to persist a join row
// without a counterpart.
func (e *Editor) ToggleJoin(key, id string, selected bool) {
	if id == "" {
		return
	}
	state, ok := e.joins[key]
	if !ok {
		return
	}
	if selected {
		state[id] = true
	} else {
		delete(state, id)
	}
}

// JoinState returns a copy of the desired counterpart-ID set for one join
// relation.
func (e *Editor) JoinState(key string) map[string]bool {
	out := make(map[string]bool, len(e.joins[key]))
	for id := range e.joins[key] {
		out[id] = true
	}
	return out
}

// Submit persists the draft: POST for create, PUT addressed by the
// original row's primary keys for edit. On success, join relations are
// reconciled as a second step against the now-existing owner ID. Reports
// from that second step are returned even when reconciliation partially
// fails, so callers can surface "n/m operations failed" and retry.
func (e *Editor) Submit(ctx context.Context) (api.Row, []*SyncReport, error) {
	payload := e.buildPayload()

	var saved api.Row
	switch e.mode {
	case ModeCreate:
		row, err := e.client.Create(ctx, e.desc.Path, payload)
		if err != nil {
			return nil, nil, err
		}
		saved = row
	case ModeEdit:
		pks, err := e.primaryKeyValues()
		if err != nil {
			return nil, nil, err
		}
		row, err := e.client.Update(ctx, e.desc.Path, pks, payload)
		if err != nil {
			return nil, nil, err
		}
		saved = row
	}

	reports, err := e.syncJoins(ctx, saved)
	return saved, reports, err
}

func (e *Editor) buildPayload() api.Row {
	payload := make(api.Row, len(e.draft))
	for _, field := range e.Fields() {
		payload[field] = coerce(e.Widget(field), e.draft[field])
	}
	return payload
}

// coerce converts a draft value to its wire form: numbers become float64,
// checkboxes become bool, and empty-string optionals become null.
func coerce(w Widget, v any) any {
	switch w {
	case WidgetNumber:
		switch val := v.(type) {
		case string:
			if val == "" {
				return nil
			}
			if n, err := strconv.ParseFloat(val, 64); err == nil {
				return n
			}
			return nil
		default:
			return v
		}
	case WidgetCheckbox:
		switch val := v.(type) {
		case bool:
			return val
		case string:
			return val == "true"
		default:
			return false
		}
	default:
		if s, ok := v.(string); ok && s == "" {
			return nil
		}
		return v
	}
}

func (e *Editor) primaryKeyValues() ([]string, error) {
	if e.original == nil {
		return nil, ErrNoRowSelected
	}
	pks := make([]string, 0, len(e.desc.PrimaryKeys))
	for _, pk := range e.desc.PrimaryKeys {
		v, ok := e.original[pk]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: row missing primary key %s", ErrNoRowSelected, pk)
		}
		pks = append(pks, Stringify(v))
	}
	return pks, nil
}

// syncJoins reconciles each join relation after the primary write. The
// owner ID comes from the saved row when the backend echoed one (create),
// falling back to the original row (edit with an empty PUT response).
func (e *Editor) syncJoins(ctx context.Context, saved api.Row) ([]*SyncReport, error) {
	if len(e.joinSpecs) == 0 {
		return nil, nil
	}

	ownerPK := e.desc.PrimaryKeys[0]
	ownerID := ""
	if saved != nil {
		ownerID = Stringify(saved[ownerPK])
	}
	if ownerID == "" && e.original != nil {
		ownerID = Stringify(e.original[ownerPK])
	}
	if ownerID == "" {
		return nil, fmt.Errorf("sync joins: no owner id after save")
	}

	var reports []*SyncReport
	var firstErr error
	for _, spec := range e.joinSpecs {
		report, err := e.syncer.Sync(ctx, spec, ownerID, e.joins[spec.Key])
		if report != nil {
			reports = append(reports, report)
		}
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return reports, firstErr
}
