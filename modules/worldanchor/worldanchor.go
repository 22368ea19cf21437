// Package worldanchor provides a scene-backed module that keeps a stable
// root node for world content and reports on it during builds.
package worldanchor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/modules/diagnostics"
)

// Name is the module's fully-qualified type name.
const Name = "modrig/worldanchor.Module"

// statsSource is the slice of the diagnostics module this module consumes.
type statsSource interface {
	Frames() int
	SceneEvents() int
}

// Module anchors world content to a scene node. It consumes the diagnostics
// functionality when one is loaded; running without it is fine.
type Module struct {
	log zerolog.Logger

	node  module.NodeID
	stats statsSource
}

// New creates the world anchor module.
func New(logger zerolog.Logger) *Module {
	return &Module{log: logger}
}

// BindNode receives the scene node created for this module.
func (m *Module) BindNode(id module.NodeID) {
	m.node = id
}

// Node returns the bound scene node.
func (m *Module) Node() module.NodeID { return m.node }

// HasStats reports whether a diagnostics provider was connected.
func (m *Module) HasStats() bool { return m.stats != nil }

// Dependencies declares the functionality this module consumes.
func (m *Module) Dependencies() []module.Dependency {
	return []module.Dependency{
		{
			Capability: diagnostics.Tag,
			Connect: func(provider module.Module) error {
				src, ok := provider.(statsSource)
				if !ok {
					return fmt.Errorf("provider %T does not expose stats", provider)
				}
				m.stats = src
				return nil
			},
		},
	}
}

// LoadModule verifies the module was given its node.
func (m *Module) LoadModule(ctx context.Context) error {
	if m.node == "" {
		return fmt.Errorf("world anchor has no scene node")
	}
	m.log.Debug().Str("node", string(m.node)).Msg("world anchor ready")
	return nil
}

// UnloadModule drops the connected provider reference.
func (m *Module) UnloadModule(ctx context.Context) error {
	m.stats = nil
	return nil
}

// PreprocessBuild implements build processing.
func (m *Module) PreprocessBuild(ctx context.Context, build module.BuildInfo) error {
	m.log.Info().Str("target", build.Target).Msg("anchoring world for build")
	return nil
}

// ProcessScene implements build processing.
func (m *Module) ProcessScene(ctx context.Context, scene module.SceneInfo) error {
	if m.stats != nil {
		m.log.Debug().
			Str("scene", scene.Name).
			Int("scene_events", m.stats.SceneEvents()).
			Msg("processing scene")
	}
	return nil
}

// PostprocessBuild implements build processing.
func (m *Module) PostprocessBuild(ctx context.Context, build module.BuildInfo) error {
	return nil
}

// Descriptor returns the module's registration descriptor.
func Descriptor(logger zerolog.Logger) module.Descriptor {
	return module.Descriptor{
		Name: Name,
		Kind: module.KindSceneObject,
		New: func() (module.Module, error) {
			return New(logger), nil
		},
	}
}
