package module

import "strings"

// Capability is a bit set of the dispatch categories and roles a module
// participates in. It is computed once when the module is installed and
// cached; category membership never changes after construction.
type Capability uint16

const (
	CapLoad Capability = 1 << iota
	CapUnload
	CapBehavior
	CapScene
	CapBuild
	CapAsset
	CapProvider
	CapConsumer
	CapInjector
)

// Has reports whether all bits in want are set.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// String returns a comma-separated list of capability names.
func (c Capability) String() string {
	names := []struct {
		bit  Capability
		name string
	}{
		{CapLoad, "load"},
		{CapUnload, "unload"},
		{CapBehavior, "behavior"},
		{CapScene, "scene"},
		{CapBuild, "build"},
		{CapAsset, "asset"},
		{CapProvider, "provider"},
		{CapConsumer, "consumer"},
		{CapInjector, "injector"},
	}

	var parts []string
	for _, n := range names {
		if c.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// CapabilitiesOf inspects which hook interfaces m implements. Called exactly
// once per instance, at install time.
func CapabilitiesOf(m Module) Capability {
	var c Capability
	if _, ok := m.(Loadable); ok {
		c |= CapLoad
	}
	if _, ok := m.(Unloadable); ok {
		c |= CapUnload
	}
	if _, ok := m.(BehaviorHooks); ok {
		c |= CapBehavior
	}
	if _, ok := m.(SceneHooks); ok {
		c |= CapScene
	}
	if _, ok := m.(BuildHooks); ok {
		c |= CapBuild
	}
	if _, ok := m.(AssetHooks); ok {
		c |= CapAsset
	}
	if _, ok := m.(Provider); ok {
		c |= CapProvider
	}
	if _, ok := m.(DependencyConsumer); ok {
		c |= CapConsumer
	}
	if _, ok := m.(Injector); ok {
		c |= CapInjector
	}
	return c
}
