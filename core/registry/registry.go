// Package registry holds the static table of known module descriptors.
// Module packages register their descriptor explicitly, usually from a
// RegisterBuiltins-style call at startup; the loader then instantiates from
// this table. There is no runtime type discovery.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/modrig/modrig/domain/module"
)

// Registry is a table of module descriptors keyed by name.
// Thread-safe for concurrent registration.
type Registry struct {
	mu    sync.RWMutex
	descs map[string]module.Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		descs: make(map[string]module.Descriptor),
	}
}

// Register adds a descriptor to the table.
// Returns an error if the descriptor is invalid or the name is already taken;
// one instance per type is enforced here, at registration time.
func (r *Registry) Register(desc module.Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descs[desc.Name]; exists {
		return fmt.Errorf("module %q already registered", desc.Name)
	}
	r.descs[desc.Name] = desc
	return nil
}

// MustRegister registers a descriptor and panics on error. Intended for
// static registration calls at startup, where a duplicate is a programming
// error.
func (r *Registry) MustRegister(desc module.Descriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor for a module name.
func (r *Registry) Lookup(name string) (module.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descs[name]
	return desc, ok
}

// All returns every registered descriptor, sorted by name so callers see a
// deterministic candidate order regardless of registration order.
func (r *Registry) All() []module.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]module.Descriptor, 0, len(r.descs))
	for _, desc := range r.descs {
		result = append(result, desc)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// Providers returns the names of all descriptors declaring the given tag.
func (r *Registry) Providers(tag module.Tag) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, desc := range r.descs {
		if desc.Provides(tag) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
