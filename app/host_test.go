package app_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/app"
	"github.com/modrig/modrig/core/loader"
	"github.com/modrig/modrig/core/registry"
	"github.com/modrig/modrig/domain/module"
)

// sceneWatcher records which scene events it saw.
type sceneWatcher struct {
	events []string
}

func (w *sceneWatcher) SceneOpening(ctx context.Context, s module.SceneInfo) error {
	w.events = append(w.events, "opening:"+s.Name)
	return nil
}

func (w *sceneWatcher) SceneOpened(ctx context.Context, s module.SceneInfo) error {
	w.events = append(w.events, "opened:"+s.Name)
	return nil
}

func (w *sceneWatcher) SceneLoaded(ctx context.Context, s module.SceneInfo) error {
	w.events = append(w.events, "loaded:"+s.Name)
	return nil
}

func (w *sceneWatcher) SceneUnloaded(ctx context.Context, s module.SceneInfo) error {
	w.events = append(w.events, "unloaded:"+s.Name)
	return nil
}

func (w *sceneWatcher) ActiveSceneChanged(ctx context.Context, prev, cur module.SceneInfo) error {
	w.events = append(w.events, "changed:"+prev.Name+">"+cur.Name)
	return nil
}

func (w *sceneWatcher) NewSceneCreated(ctx context.Context, s module.SceneInfo) error {
	w.events = append(w.events, "created:"+s.Name)
	return nil
}

func newHost(t *testing.T, reg *registry.Registry) *app.Host {
	t.Helper()
	l := loader.New(reg, loader.Options{Logger: zerolog.Nop()})
	if err := l.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return app.NewHost(l, zerolog.Nop())
}

func singleWatcherRegistry(w *sceneWatcher) *registry.Registry {
	reg := registry.New()
	reg.MustRegister(module.Descriptor{
		Name: "watcher.Module",
		New:  func() (module.Module, error) { return w, nil },
	})
	return reg
}

func TestHost_SingleSceneTransitionReloads(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	before := h.Loader().CycleID()
	h.SceneOpened(ctx, module.SceneInfo{Name: "level1", Mode: module.SceneSingle})

	if h.Loader().CycleID() == before {
		t.Error("single-scene open did not reload the module set")
	}
	// The reload completes before the opened event is delivered.
	if len(w.events) != 1 || w.events[0] != "opened:level1" {
		t.Errorf("events = %v, want [opened:level1]", w.events)
	}
}

func TestHost_SingleSceneCloseReloads(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	before := h.Loader().CycleID()
	h.SceneUnloaded(ctx, module.SceneInfo{Name: "level1", Mode: module.SceneSingle})

	if h.Loader().CycleID() == before {
		t.Error("single-scene close did not reload the module set")
	}
	if len(w.events) != 1 || w.events[0] != "unloaded:level1" {
		t.Errorf("events = %v, want [unloaded:level1]", w.events)
	}
}

func TestHost_AdditiveSceneCloseDoesNotReload(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	before := h.Loader().CycleID()
	h.SceneUnloaded(ctx, module.SceneInfo{Name: "overlay", Mode: module.SceneAdditive})

	if h.Loader().CycleID() != before {
		t.Error("additive scene close reloaded the module set")
	}
	if len(w.events) != 1 || w.events[0] != "unloaded:overlay" {
		t.Errorf("events = %v, want [unloaded:overlay]", w.events)
	}
}

func TestHost_AdditiveSceneTransitionDoesNotReload(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	before := h.Loader().CycleID()
	h.SceneOpened(ctx, module.SceneInfo{Name: "overlay", Mode: module.SceneAdditive})

	if h.Loader().CycleID() != before {
		t.Error("additive scene open reloaded the module set")
	}
	if len(w.events) != 1 || w.events[0] != "opened:overlay" {
		t.Errorf("events = %v, want [opened:overlay]", w.events)
	}
}

func TestHost_SceneEventsSuppressedDuringBuild(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	h.PreprocessBuild(ctx, module.BuildInfo{Target: "linux"})
	before := h.Loader().CycleID()

	h.SceneOpened(ctx, module.SceneInfo{Name: "level1", Mode: module.SceneSingle})
	h.SceneLoaded(ctx, module.SceneInfo{Name: "level1"})

	if h.Loader().CycleID() != before {
		t.Error("scene-switch reload ran during a build")
	}
	if len(w.events) != 0 {
		t.Errorf("scene events delivered during build: %v", w.events)
	}

	h.PostprocessBuild(ctx, module.BuildInfo{Target: "linux"})
	if h.Loader().IsBuilding() {
		t.Error("IsBuilding() = true after PostprocessBuild")
	}

	h.SceneLoaded(ctx, module.SceneInfo{Name: "level1"})
	if len(w.events) != 1 {
		t.Errorf("events after build = %v, want one loaded event", w.events)
	}
}

func TestHost_SceneEventsSuppressedWhenBlocked(t *testing.T) {
	w := &sceneWatcher{}
	h := newHost(t, singleWatcherRegistry(w))
	ctx := context.Background()

	h.Loader().BlockSceneCallbacks(true)
	h.NewSceneCreated(ctx, module.SceneInfo{Name: "new", Mode: module.SceneSingle})
	if len(w.events) != 0 {
		t.Errorf("scene events delivered while blocked: %v", w.events)
	}

	h.Loader().BlockSceneCallbacks(false)
	h.ActiveSceneChanged(ctx, module.SceneInfo{Name: "a"}, module.SceneInfo{Name: "b"})
	if len(w.events) != 1 || w.events[0] != "changed:a>b" {
		t.Errorf("events = %v, want [changed:a>b]", w.events)
	}
}

func TestHost_BuildGate(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(module.Descriptor{
		Name: "plain.Module",
		New:  func() (module.Module, error) { return struct{}{}, nil },
	})
	h := newHost(t, reg)
	ctx := context.Background()

	h.PreprocessBuild(ctx, module.BuildInfo{})
	if !h.Loader().IsBuilding() {
		t.Fatal("IsBuilding() = false after PreprocessBuild")
	}

	// Reload requests are dropped while the build runs.
	before := h.Loader().CycleID()
	if err := h.Loader().Reload(ctx); err != nil {
		t.Fatalf("Reload() during build error = %v", err)
	}
	if h.Loader().CycleID() != before {
		t.Error("Reload() ran during a build")
	}

	h.PostprocessBuild(ctx, module.BuildInfo{})
}
