// Package order implements the six independent sort spaces the orchestrator
// uses: load, unload, behavior, scene, build and asset.
//
// Every module has an integer key per space, defaulting to zero. Sorting is
// total and deterministic: keys ascending, ties broken by descriptor name
// ascending, so equal keys never reorder between runs.
package order

import "sort"

// Space identifies one of the six sort contexts.
type Space int

const (
	Load Space = iota
	Unload
	Behavior
	Scene
	Build
	Asset
)

// String returns the space name used in logs and metrics labels.
func (s Space) String() string {
	switch s {
	case Load:
		return "load"
	case Unload:
		return "unload"
	case Behavior:
		return "behavior"
	case Scene:
		return "scene"
	case Build:
		return "build"
	case Asset:
		return "asset"
	default:
		return "unknown"
	}
}

// Spaces lists all spaces in a fixed order.
func Spaces() []Space {
	return []Space{Load, Unload, Behavior, Scene, Build, Asset}
}

// Keys holds a module's key for each space. The zero value is the default
// ordering for a module that declares no overrides.
type Keys struct {
	Load     int
	Unload   int
	Behavior int
	Scene    int
	Build    int
	Asset    int
}

// In returns the key for the given space.
func (k Keys) In(s Space) int {
	switch s {
	case Load:
		return k.Load
	case Unload:
		return k.Unload
	case Behavior:
		return k.Behavior
	case Scene:
		return k.Scene
	case Build:
		return k.Build
	case Asset:
		return k.Asset
	default:
		return 0
	}
}

// Sort orders items in the given space: key ascending, then name ascending.
// The sort is stable, but the name tie-break already makes the result unique
// for distinct names, which is what guarantees run-to-run determinism.
func Sort[T any](items []T, space Space, keysOf func(T) Keys, nameOf func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		ki, kj := keysOf(items[i]).In(space), keysOf(items[j]).In(space)
		if ki != kj {
			return ki < kj
		}
		return nameOf(items[i]) < nameOf(items[j])
	})
}
