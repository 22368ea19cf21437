// Package modules registers the built-in module set.
package modules

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/core/registry"
	"github.com/modrig/modrig/modules/diagnostics"
	"github.com/modrig/modrig/modules/funcinject"
	"github.com/modrig/modrig/modules/runtimesettings"
	"github.com/modrig/modrig/modules/worldanchor"
)

// RegisterBuiltins installs all built-in module descriptors into the
// provided registry.
func RegisterBuiltins(reg *registry.Registry, logger zerolog.Logger) error {
	descriptors := []struct {
		name string
		desc func() error
	}{
		{funcinject.Name, func() error { return reg.Register(funcinject.Descriptor(logger)) }},
		{diagnostics.Name, func() error { return reg.Register(diagnostics.Descriptor(logger)) }},
		{worldanchor.Name, func() error { return reg.Register(worldanchor.Descriptor(logger)) }},
		{runtimesettings.Name, func() error { return reg.Register(runtimesettings.Descriptor(logger)) }},
	}

	for _, d := range descriptors {
		if err := d.desc(); err != nil {
			return fmt.Errorf("register %s: %w", d.name, err)
		}
	}
	return nil
}
