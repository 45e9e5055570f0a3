package engine

import (
	"context"
	"fmt"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// Session is the admin shell's per-resource state bundle: the selected
// resource, its list controller, the currently selected row and any open
// editor, plus the shared relation-option cache. SwitchResource is the
// single transition that resets all of it together so no stale field state
// bleeds across resources.
type Session struct {
	client    *api.Client
	registry  *resource.Registry
	relations *resource.RelationMap
	resolver  *Resolver

	current  *resource.Descriptor
	list     *ListController
	selected api.Row
	editor   *Editor
}

func NewSession(client *api.Client, registry *resource.Registry, relations *resource.RelationMap) *Session {
	return &Session{
		client:    client,
		registry:  registry,
		relations: relations,
		resolver:  NewResolver(client, registry, relations),
	}
}

// SwitchResource selects a resource by key or path and resets every piece
// of per-resource state: page back to 1, selection and editor cleared,
// relation-option cache invalidated (which also discards in-flight
// fetches dispatched for the previous resource).
func (s *Session) SwitchResource(keyOrPath string) error {
	desc := s.registry.Lookup(keyOrPath)
	if desc == nil {
		return fmt.Errorf("unknown resource: %s", keyOrPath)
	}
	s.current = desc
	s.list = NewListController(s.client, desc)
	s.selected = nil
	s.editor = nil
	s.resolver.Reset()
	return nil
}

// Resource returns the selected descriptor, or nil before the first switch.
func (s *Session) Resource() *resource.Descriptor { return s.current }

// List returns the list controller for the selected resource.
func (s *Session) List() *ListController { return s.list }

// Resolver exposes the relation-option cache (read-mostly; the editor and
// detail view consult it).
func (s *Session) Resolver() *Resolver { return s.resolver }

// Select marks a row as the current selection.
func (s *Session) Select(row api.Row) { s.selected = row }

// Selected returns the currently selected row, or nil.
func (s *Session) Selected() api.Row { return s.selected }

// OpenEditor opens a create or edit form for the selected resource and
// resolves relation options for its FK-shaped fields. A relation fetch
// failing is reported but leaves the editor usable; the affected fields
// fall back to plain text inputs.
func (s *Session) OpenEditor(ctx context.Context, mode Mode, row api.Row) (*Editor, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no resource selected")
	}
	resolveErr := s.resolver.Resolve(ctx, s.relations.RelationFieldsOf(s.current))
	s.editor = NewEditor(s.client, s.current, s.resolver, mode, row)
	return s.editor, resolveErr
}

// Editor returns the open editor, or nil.
func (s *Session) Editor() *Editor { return s.editor }

// CloseEditor discards the open form and its draft.
func (s *Session) CloseEditor() { s.editor = nil }

// Detail returns a detail view for the selected resource.
func (s *Session) Detail() (*DetailView, error) {
	if s.current == nil {
		return nil, fmt.Errorf("no resource selected")
	}
	return NewDetailView(s.client, s.current, s.relations), nil
}
