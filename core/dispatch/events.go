package dispatch

import (
	"context"

	"github.com/modrig/modrig/domain/module"
)

// -----------------------------------------------------------------------------
// Behavior events
// -----------------------------------------------------------------------------

// Awake forwards the behavior awake event.
func (d *Dispatcher) Awake(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "awake", e.Name, func() error { return h.Awake(ctx) })
	}
}

// Enable forwards the behavior enable event.
func (d *Dispatcher) Enable(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "enable", e.Name, func() error { return h.Enable(ctx) })
	}
}

// Start forwards the behavior start event.
func (d *Dispatcher) Start(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "start", e.Name, func() error { return h.Start(ctx) })
	}
}

// Update forwards one frame tick.
func (d *Dispatcher) Update(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "update", e.Name, func() error { return h.Update(ctx) })
	}
}

// Disable forwards the behavior disable event.
func (d *Dispatcher) Disable(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "disable", e.Name, func() error { return h.Disable(ctx) })
	}
}

// Destroy forwards the behavior destroy event.
func (d *Dispatcher) Destroy(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.behavior {
		h := e.Inst.(module.BehaviorHooks)
		d.call("behavior", "destroy", e.Name, func() error { return h.Destroy(ctx) })
	}
}

// -----------------------------------------------------------------------------
// Scene events
// -----------------------------------------------------------------------------

// SceneOpening forwards the scene opening event.
func (d *Dispatcher) SceneOpening(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "opening", e.Name, func() error { return h.SceneOpening(ctx, scene) })
	}
}

// SceneOpened forwards the scene opened event.
func (d *Dispatcher) SceneOpened(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "opened", e.Name, func() error { return h.SceneOpened(ctx, scene) })
	}
}

// SceneLoaded forwards the runtime scene loaded event.
func (d *Dispatcher) SceneLoaded(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "loaded", e.Name, func() error { return h.SceneLoaded(ctx, scene) })
	}
}

// SceneUnloaded forwards the runtime scene unloaded event.
func (d *Dispatcher) SceneUnloaded(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "unloaded", e.Name, func() error { return h.SceneUnloaded(ctx, scene) })
	}
}

// ActiveSceneChanged forwards an active-scene switch.
func (d *Dispatcher) ActiveSceneChanged(ctx context.Context, previous, current module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "active_changed", e.Name, func() error {
			return h.ActiveSceneChanged(ctx, previous, current)
		})
	}
}

// NewSceneCreated forwards creation of a new scene.
func (d *Dispatcher) NewSceneCreated(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.scene {
		h := e.Inst.(module.SceneHooks)
		d.call("scene", "new_scene", e.Name, func() error { return h.NewSceneCreated(ctx, scene) })
	}
}

// -----------------------------------------------------------------------------
// Build events
// -----------------------------------------------------------------------------

// PreprocessBuild forwards the build pre-process event.
func (d *Dispatcher) PreprocessBuild(ctx context.Context, build module.BuildInfo) {
	defer d.begin()()
	for _, e := range d.build {
		h := e.Inst.(module.BuildHooks)
		d.call("build", "preprocess", e.Name, func() error { return h.PreprocessBuild(ctx, build) })
	}
}

// ProcessScene forwards a per-scene build step.
func (d *Dispatcher) ProcessScene(ctx context.Context, scene module.SceneInfo) {
	defer d.begin()()
	for _, e := range d.build {
		h := e.Inst.(module.BuildHooks)
		d.call("build", "process_scene", e.Name, func() error { return h.ProcessScene(ctx, scene) })
	}
}

// PostprocessBuild forwards the build post-process event.
func (d *Dispatcher) PostprocessBuild(ctx context.Context, build module.BuildInfo) {
	defer d.begin()()
	for _, e := range d.build {
		h := e.Inst.(module.BuildHooks)
		d.call("build", "postprocess", e.Name, func() error { return h.PostprocessBuild(ctx, build) })
	}
}

// -----------------------------------------------------------------------------
// Asset events
// -----------------------------------------------------------------------------

// WillCreateAsset forwards an asset creation interception.
func (d *Dispatcher) WillCreateAsset(ctx context.Context, path string) {
	defer d.begin()()
	for _, e := range d.asset {
		h := e.Inst.(module.AssetHooks)
		d.call("asset", "will_create", e.Name, func() error { return h.WillCreateAsset(ctx, path) })
	}
}

// WillSaveAssets threads the path list through every asset subscriber and
// returns the final filtered list. A failing subscriber leaves the list as
// the previous subscriber produced it.
func (d *Dispatcher) WillSaveAssets(ctx context.Context, paths []string) []string {
	defer d.begin()()
	out := paths
	for _, e := range d.asset {
		h := e.Inst.(module.AssetHooks)
		d.call("asset", "will_save", e.Name, func() error {
			filtered, err := h.WillSaveAssets(ctx, out)
			if err != nil {
				return err
			}
			out = filtered
			return nil
		})
	}
	return out
}

// WillDeleteAsset asks every asset subscriber about a deletion and OR-folds
// the results: any DidDelete makes the aggregate DidDelete. A failing
// subscriber contributes DidNotDelete.
func (d *Dispatcher) WillDeleteAsset(ctx context.Context, path string, opts module.DeleteOptions) module.DeleteResult {
	defer d.begin()()
	result := module.DidNotDelete
	for _, e := range d.asset {
		h := e.Inst.(module.AssetHooks)
		d.call("asset", "will_delete", e.Name, func() error {
			res, err := h.WillDeleteAsset(ctx, path, opts)
			if err != nil {
				return err
			}
			result = result.Combine(res)
			return nil
		})
	}
	return result
}

// -----------------------------------------------------------------------------
// Unload
// -----------------------------------------------------------------------------

// UnloadAll calls every unloadable module's unload hook, in unload order.
func (d *Dispatcher) UnloadAll(ctx context.Context) {
	defer d.begin()()
	for _, e := range d.unload {
		h := e.Inst.(module.Unloadable)
		d.call("unload", "unload", e.Name, func() error { return h.UnloadModule(ctx) })
	}
}
