package module

import (
	"fmt"
	"strings"

	"github.com/modrig/modrig/domain/order"
)

// Descriptor statically describes a module type: its identity, construction
// strategy, sort keys and the functionality tags it offers to consumers.
// Descriptors replace runtime type discovery; every module type is registered
// explicitly.
type Descriptor struct {
	// Name is the fully-qualified type name, e.g.
	// "modrig/diagnostics.Module". It is the module's identity, the
	// exclusion-list key and the tie-break key in every sort space.
	Name string

	// Kind selects the construction strategy.
	Kind Kind

	// Orders holds the per-space sort keys. Zero values mean default order.
	Orders order.Keys

	// New constructs the module instance. For KindSettings the loader calls
	// it at most once per process and caches the result.
	New func() (Module, error)

	// Tags lists the functionality this module offers as a dependency
	// provider. Tags are matched against consumer declarations by value.
	Tags []Tag
}

// Validate checks that the descriptor is complete.
func (d Descriptor) Validate() error {
	var errs []string

	if d.Name == "" {
		errs = append(errs, "name is required")
	}
	if d.New == nil {
		errs = append(errs, "constructor is required")
	}
	for i, tag := range d.Tags {
		if tag == "" {
			errs = append(errs, fmt.Sprintf("tags[%d] is empty", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid descriptor %q: %s", d.Name, strings.Join(errs, ", "))
	}
	return nil
}

// Provides reports whether the descriptor declares the given tag.
func (d Descriptor) Provides(tag Tag) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
