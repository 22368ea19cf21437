// Package diagnostics provides a module that observes the behavior and scene
// lifecycle and offers its counters to other modules as functionality.
package diagnostics

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/domain/order"
)

// Name is the module's fully-qualified type name.
const Name = "modrig/diagnostics.Module"

// Tag is the functionality this module provides.
const Tag = module.Tag("modrig.diagnostics")

// Module counts lifecycle traffic. It runs early in the behavior order so
// its counters are current when later modules update.
type Module struct {
	log zerolog.Logger

	frames       int
	sceneEvents  int
	awakened     bool
	loadedCycles int
}

// New creates the diagnostics module.
func New(logger zerolog.Logger) *Module {
	return &Module{log: logger}
}

// Frames returns the number of update ticks seen this cycle.
func (m *Module) Frames() int { return m.frames }

// SceneEvents returns the number of scene events seen this cycle.
func (m *Module) SceneEvents() int { return m.sceneEvents }

// LoadedCycles returns how many load cycles this instance has been through.
func (m *Module) LoadedCycles() int { return m.loadedCycles }

// Functionalities marks the module as a provider.
func (m *Module) Functionalities() []module.Tag {
	return []module.Tag{Tag}
}

// LoadModule resets the per-cycle counters.
func (m *Module) LoadModule(ctx context.Context) error {
	m.frames = 0
	m.sceneEvents = 0
	m.awakened = false
	m.loadedCycles++
	return nil
}

// UnloadModule logs the cycle summary.
func (m *Module) UnloadModule(ctx context.Context) error {
	m.log.Debug().
		Int("frames", m.frames).
		Int("scene_events", m.sceneEvents).
		Msg("diagnostics cycle summary")
	return nil
}

// Awake implements the behavior lifecycle.
func (m *Module) Awake(ctx context.Context) error {
	m.awakened = true
	return nil
}

// Enable implements the behavior lifecycle.
func (m *Module) Enable(ctx context.Context) error { return nil }

// Start implements the behavior lifecycle.
func (m *Module) Start(ctx context.Context) error { return nil }

// Update counts one frame.
func (m *Module) Update(ctx context.Context) error {
	m.frames++
	return nil
}

// Disable implements the behavior lifecycle.
func (m *Module) Disable(ctx context.Context) error { return nil }

// Destroy implements the behavior lifecycle.
func (m *Module) Destroy(ctx context.Context) error { return nil }

// SceneOpening counts a scene event.
func (m *Module) SceneOpening(ctx context.Context, scene module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// SceneOpened counts a scene event.
func (m *Module) SceneOpened(ctx context.Context, scene module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// SceneLoaded counts a scene event.
func (m *Module) SceneLoaded(ctx context.Context, scene module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// SceneUnloaded counts a scene event.
func (m *Module) SceneUnloaded(ctx context.Context, scene module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// ActiveSceneChanged counts a scene event.
func (m *Module) ActiveSceneChanged(ctx context.Context, previous, current module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// NewSceneCreated counts a scene event.
func (m *Module) NewSceneCreated(ctx context.Context, scene module.SceneInfo) error {
	m.sceneEvents++
	return nil
}

// Descriptor returns the module's registration descriptor.
func Descriptor(logger zerolog.Logger) module.Descriptor {
	return module.Descriptor{
		Name: Name,
		Kind: module.KindDefault,
		Orders: order.Keys{
			Behavior: -10, // observe before everything else updates
		},
		New: func() (module.Module, error) {
			return New(logger), nil
		},
		Tags: []module.Tag{Tag},
	}
}
