// Package runtimesettings provides the process-wide settings module. It is a
// singleton: one instance survives across load cycles.
package runtimesettings

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/domain/module"
)

// Name is the module's fully-qualified type name.
const Name = "modrig/runtimesettings.Module"

// Tag is the functionality this module provides.
const Tag = module.Tag("modrig.settings")

// Module holds runtime key/value settings and guards the asset pipeline
// against saving transient files.
type Module struct {
	log zerolog.Logger

	mu     sync.RWMutex
	values map[string]string

	// TransientPrefixes are asset path prefixes that are filtered out of
	// save operations.
	TransientPrefixes []string
}

// New creates the settings module with default transient prefixes.
func New(logger zerolog.Logger) *Module {
	return &Module{
		log:               logger,
		values:            make(map[string]string),
		TransientPrefixes: []string{"Temp/", "Library/"},
	}
}

// Get returns a setting value.
func (m *Module) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Set stores a setting value.
func (m *Module) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Functionalities marks the module as a provider.
func (m *Module) Functionalities() []module.Tag {
	return []module.Tag{Tag}
}

// LoadModule implements the load hook. Settings survive cycles, so there is
// nothing to reset.
func (m *Module) LoadModule(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.log.Debug().Int("values", len(m.values)).Msg("runtime settings available")
	return nil
}

// WillCreateAsset implements asset interception.
func (m *Module) WillCreateAsset(ctx context.Context, path string) error {
	return nil
}

// WillSaveAssets filters transient paths out of the save list.
func (m *Module) WillSaveAssets(ctx context.Context, paths []string) ([]string, error) {
	out := paths[:0:0]
	for _, p := range paths {
		if m.transient(p) {
			m.log.Debug().Str("path", p).Msg("transient asset skipped from save")
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// WillDeleteAsset never handles deletions itself.
func (m *Module) WillDeleteAsset(ctx context.Context, path string, opts module.DeleteOptions) (module.DeleteResult, error) {
	return module.DidNotDelete, nil
}

func (m *Module) transient(path string) bool {
	for _, prefix := range m.TransientPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Descriptor returns the module's registration descriptor.
func Descriptor(logger zerolog.Logger) module.Descriptor {
	return module.Descriptor{
		Name: Name,
		Kind: module.KindSettings,
		New: func() (module.Module, error) {
			return New(logger), nil
		},
		Tags: []module.Tag{Tag},
	}
}
