package engine

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"admin-console/internal/api"
	"admin-console/internal/resource"
)

// relationFetchLimit bounds how many related rows get pulled into one
// option set. Option sets are meant for small lookup tables, not for
// paging through large collections.
const relationFetchLimit = 200

// RelationOption is one selectable value for a foreign-key-shaped field.
type RelationOption struct {
	Value string
	Label string
}

// Resolver populates and caches RelationOption sets for FK-shaped fields.
// Fetches for independent fields fan out concurrently; one relation failing
// leaves the others intact and that field's options absent (the editor
// falls back to a plain text input). A generation counter guards against a
// stale in-flight fetch writing into the cache after a resource switch.
// The generation and the cache share one mutex so a reset and a store can
// never interleave.
type Resolver struct {
	client    *api.Client
	registry  *resource.Registry
	relations *resource.RelationMap

	mu    sync.Mutex
	gen   uint64
	cache map[string][]RelationOption
}

func NewResolver(client *api.Client, registry *resource.Registry, relations *resource.RelationMap) *Resolver {
	return &Resolver{
		client:    client,
		registry:  registry,
		relations: relations,
		cache:     make(map[string][]RelationOption),
	}
}

// Resolve fetches option sets for every given field that has a declared
// relation and is not already cached. Returns the first fetch error for
// reporting; other fields are still populated.
func (r *Resolver) Resolve(ctx context.Context, fields []string) error {
	r.mu.Lock()
	gen := r.gen
	r.mu.Unlock()

	var g errgroup.Group
	for _, field := range fields {
		rel := r.relations.Lookup(field)
		if rel == nil {
			continue
		}
		if _, cached := r.Options(field); cached {
			continue
		}
		field := field
		g.Go(func() error {
			options, err := r.fetch(ctx, rel)
			if err != nil {
				log.Printf("WARN: resolve %s: %v", field, err)
				return fmt.Errorf("resolve %s: %w", field, err)
			}
			r.store(gen, field, options)
			return nil
		})
	}
	return g.Wait()
}

// Options returns the cached option set for a field. The second return
// distinguishes "not fetched" from "fetched, zero related rows": an empty
// cached set still means the editor renders a plain input.
func (r *Resolver) Options(field string) ([]RelationOption, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	options, ok := r.cache[field]
	return options, ok
}

// Reset clears the cache and advances the generation so in-flight fetches
// dispatched before the reset are discarded on arrival.
func (r *Resolver) Reset() {
	r.mu.Lock()
	r.gen++
	r.cache = make(map[string][]RelationOption)
	r.mu.Unlock()
}

func (r *Resolver) fetch(ctx context.Context, rel *resource.Relation) ([]RelationOption, error) {
	target := r.registry.Lookup(rel.TargetKey)
	if target == nil {
		return nil, fmt.Errorf("unknown target resource: %s", rel.TargetKey)
	}

	rows, _, err := r.client.List(ctx, target.Path, 1, relationFetchLimit)
	if err != nil {
		return nil, err
	}

	options := make([]RelationOption, 0, len(rows))
	for _, row := range rows {
		pk := target.PrimaryKeys[0]
		value := Stringify(row[pk])
		if value == "" {
			continue
		}
		options = append(options, RelationOption{Value: value, Label: rel.Label(row)})
	}
	return options, nil
}

func (r *Resolver) store(gen uint64, field string, options []RelationOption) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// The session switched resources while this fetch was in flight.
		return
	}
	r.cache[field] = options
}
