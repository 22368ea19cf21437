// Package app wires the orchestrator to the engine host.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/core/loader"
	"github.com/modrig/modrig/domain/module"
)

// Host is the engine-facing callback surface. The host engine calls these
// entry points for build processing, asset interception, scene transitions
// and behavior lifecycle forwarding; each is a thin adapter into the
// lifecycle dispatcher.
type Host struct {
	logger zerolog.Logger
	loader *loader.Loader
}

// NewHost creates the host adapter over a loader.
func NewHost(l *loader.Loader, logger zerolog.Logger) *Host {
	return &Host{logger: logger, loader: l}
}

// Loader exposes the underlying loader for queries.
func (h *Host) Loader() *loader.Loader { return h.loader }

// -----------------------------------------------------------------------------
// Behavior lifecycle forwarding
// -----------------------------------------------------------------------------

// Awake forwards the behavior awake event. After the first awake of a load
// cycle, functionality injection is re-run to catch providers that did not
// exist at scene-analysis time.
func (h *Host) Awake(ctx context.Context) {
	h.loader.Dispatcher().Awake(ctx)
	h.loader.EnsureInjected(ctx)
}

// Enable forwards the behavior enable event.
func (h *Host) Enable(ctx context.Context) {
	h.loader.Dispatcher().Enable(ctx)
}

// Start forwards the behavior start event.
func (h *Host) Start(ctx context.Context) {
	h.loader.Dispatcher().Start(ctx)
}

// Update forwards one frame tick.
func (h *Host) Update(ctx context.Context) {
	h.loader.Dispatcher().Update(ctx)
}

// Disable forwards the behavior disable event.
func (h *Host) Disable(ctx context.Context) {
	h.loader.Dispatcher().Disable(ctx)
}

// Destroy forwards the behavior destroy event.
func (h *Host) Destroy(ctx context.Context) {
	h.loader.Dispatcher().Destroy(ctx)
}

// -----------------------------------------------------------------------------
// Scene transitions
// -----------------------------------------------------------------------------

// sceneSuppressed reports whether scene events are currently ignored: during
// a build, or while a caller has globally blocked scene callbacks.
func (h *Host) sceneSuppressed() bool {
	return h.loader.IsBuilding() || h.loader.SceneCallbacksBlocked()
}

// SceneOpening forwards the scene opening event.
func (h *Host) SceneOpening(ctx context.Context, scene module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	h.loader.Dispatcher().SceneOpening(ctx, scene)
}

// SceneOpened forwards the scene opened event. A single-scene transition
// reloads the entire module set before the event is delivered.
func (h *Host) SceneOpened(ctx context.Context, scene module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	if scene.Mode == module.SceneSingle {
		if err := h.loader.SwitchScene(ctx); err != nil {
			h.logger.Error().Err(err).Str("scene", scene.Name).Msg("scene-switch reload failed")
		}
	}
	h.loader.Dispatcher().SceneOpened(ctx, scene)
}

// SceneLoaded forwards the runtime scene loaded event.
func (h *Host) SceneLoaded(ctx context.Context, scene module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	h.loader.Dispatcher().SceneLoaded(ctx, scene)
}

// SceneUnloaded forwards the runtime scene unloaded event. Closing a
// single-mode scene reloads the entire module set before the event is
// delivered, the same as opening one.
func (h *Host) SceneUnloaded(ctx context.Context, scene module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	if scene.Mode == module.SceneSingle {
		if err := h.loader.SwitchScene(ctx); err != nil {
			h.logger.Error().Err(err).Str("scene", scene.Name).Msg("scene-switch reload failed")
		}
	}
	h.loader.Dispatcher().SceneUnloaded(ctx, scene)
}

// ActiveSceneChanged forwards an active-scene switch.
func (h *Host) ActiveSceneChanged(ctx context.Context, previous, current module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	h.loader.Dispatcher().ActiveSceneChanged(ctx, previous, current)
}

// NewSceneCreated forwards creation of a new scene. A single-mode new scene
// reloads the entire module set before the event is delivered.
func (h *Host) NewSceneCreated(ctx context.Context, scene module.SceneInfo) {
	if h.sceneSuppressed() {
		return
	}
	if scene.Mode == module.SceneSingle {
		if err := h.loader.SwitchScene(ctx); err != nil {
			h.logger.Error().Err(err).Str("scene", scene.Name).Msg("scene-switch reload failed")
		}
	}
	h.loader.Dispatcher().NewSceneCreated(ctx, scene)
}

// -----------------------------------------------------------------------------
// Build processing
// -----------------------------------------------------------------------------

// PreprocessBuild marks the build as in progress and forwards the build
// pre-process event. While the build runs, module loads are gated.
func (h *Host) PreprocessBuild(ctx context.Context, build module.BuildInfo) {
	h.loader.BeginBuild()
	h.loader.Dispatcher().PreprocessBuild(ctx, build)
}

// ProcessScene forwards a per-scene build step.
func (h *Host) ProcessScene(ctx context.Context, scene module.SceneInfo) {
	h.loader.Dispatcher().ProcessScene(ctx, scene)
}

// PostprocessBuild forwards the build post-process event and releases the
// build gate.
func (h *Host) PostprocessBuild(ctx context.Context, build module.BuildInfo) {
	h.loader.Dispatcher().PostprocessBuild(ctx, build)
	h.loader.EndBuild()
}

// -----------------------------------------------------------------------------
// Asset interception
// -----------------------------------------------------------------------------

// WillCreateAsset forwards an asset creation interception.
func (h *Host) WillCreateAsset(ctx context.Context, path string) {
	h.loader.Dispatcher().WillCreateAsset(ctx, path)
}

// WillSaveAssets returns the filtered list of asset paths to save.
func (h *Host) WillSaveAssets(ctx context.Context, paths []string) []string {
	return h.loader.Dispatcher().WillSaveAssets(ctx, paths)
}

// WillDeleteAsset reports whether any module handled the deletion itself.
func (h *Host) WillDeleteAsset(ctx context.Context, path string, opts module.DeleteOptions) module.DeleteResult {
	return h.loader.Dispatcher().WillDeleteAsset(ctx, path, opts)
}
