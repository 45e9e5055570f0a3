package resource

import "sync"

// Registry is a lookup table of resource descriptors, keyed by both the
// short resource key and the REST path segment. Descriptors are immutable
// once loaded; consumers must not mutate what Lookup returns.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[string]*Descriptor
	byPath map[string]*Descriptor
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[string]*Descriptor),
		byPath: make(map[string]*Descriptor),
	}
}

// Lookup returns the descriptor registered under the given key or path
// segment, or nil.
func (r *Registry) Lookup(keyOrPath string) *Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d := r.byKey[keyOrPath]; d != nil {
		return d
	}
	return r.byPath[keyOrPath]
}

// All returns descriptors in registration order.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Keys returns all registered resource keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Load replaces the registry contents. Called once at startup.
func (r *Registry) Load(descriptors []*Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byKey = make(map[string]*Descriptor, len(descriptors))
	r.byPath = make(map[string]*Descriptor, len(descriptors))
	r.order = r.order[:0]
	for _, d := range descriptors {
		r.byKey[d.Key] = d
		r.byPath[d.Path] = d
		r.order = append(r.order, d.Key)
	}
}
