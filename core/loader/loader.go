// Package loader orchestrates the module lifecycle: instantiation from the
// descriptor registry, ordering, dependency wiring, functionality injection,
// activation and deterministic teardown.
//
// All orchestration runs on the engine's single control thread; the loader
// takes no locks. Re-entrant Load/Unload/Reload calls from inside a lifecycle
// hook are forbidden and rejected with ErrReentrant.
package loader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/modrig/modrig/core/dispatch"
	"github.com/modrig/modrig/core/registry"
	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/domain/order"
	"github.com/modrig/modrig/ports"
)

// State is the loader's lifecycle state.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
	Unloading
)

// String returns the state name used in logs and the debug endpoint.
func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Unloading:
		return "unloading"
	default:
		return "unloaded"
	}
}

// ErrReentrant is returned when Load, Unload or Reload is called from inside
// a lifecycle hook or another load/unload pass. Re-entrant transitions would
// corrupt the in-flight iteration, so they are rejected rather than queued.
var ErrReentrant = errors.New("loader: re-entrant load/unload call")

// Options configures a Loader. Only Logger is required; every port is
// optional and its feature is skipped when absent.
type Options struct {
	Logger zerolog.Logger

	// Scene hosts scene-backed modules. Without it, KindSceneObject
	// modules fail construction (logged, non-fatal).
	Scene ports.SceneGraph

	// Journal receives lifecycle audit events.
	Journal ports.Journal

	// Metrics receives orchestration counters.
	Metrics ports.Metrics

	// Clock providing timestamps; defaults to the system clock.
	Clock ports.Clock

	// Excluded resolves the excluded module names for the next load.
	// Called once per load so configuration changes apply on reload.
	Excluded func() []string
}

// installed is one module in the loaded set, with its capability flags
// detected once at install time.
type installed struct {
	desc module.Descriptor
	caps module.Capability
	inst module.Module
	node module.NodeID // scene-backed modules only
}

// Loader owns the module set and its lifecycle.
type Loader struct {
	logger   zerolog.Logger
	reg      *registry.Registry
	disp     *dispatch.Dispatcher
	scene    ports.SceneGraph
	journal  ports.Journal
	metrics  ports.Metrics
	clock    ports.Clock
	excluded func() []string

	state      State
	busy       bool
	building   bool
	switching  bool
	blockScene bool
	cycle      uuid.UUID
	reinjected bool

	set        []*installed
	singletons map[string]module.Module
	parent     module.NodeID
}

// New creates a loader over the given descriptor registry.
func New(reg *registry.Registry, opts Options) *Loader {
	clock := opts.Clock
	if clock == nil {
		clock = systemClock{}
	}

	l := &Loader{
		logger:     opts.Logger,
		reg:        reg,
		disp:       dispatch.New(opts.Logger),
		scene:      opts.Scene,
		journal:    opts.Journal,
		metrics:    opts.Metrics,
		clock:      clock,
		excluded:   opts.Excluded,
		singletons: make(map[string]module.Module),
	}

	l.disp.OnFailure(func(category, event, name string, err error) {
		if l.metrics != nil {
			l.metrics.HookFailure(category)
		}
		l.record(context.Background(), ports.Event{
			Kind:     "hook_failed",
			Module:   name,
			Category: category,
			Detail:   event + ": " + err.Error(),
		})
	})

	return l
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// -----------------------------------------------------------------------------
// Query surface
// -----------------------------------------------------------------------------

// State returns the current lifecycle state.
func (l *Loader) State() State { return l.state }

// IsLoaded reports whether a module set is currently loaded.
func (l *Loader) IsLoaded() bool { return l.state == Loaded }

// IsUnloading reports whether an unload pass is in progress.
func (l *Loader) IsUnloading() bool { return l.state == Unloading }

// IsBuilding reports whether the host flagged a build in progress.
func (l *Loader) IsBuilding() bool { return l.building }

// IsSwitchingScenes reports whether a scene-switch reload is in progress.
func (l *Loader) IsSwitchingScenes() bool { return l.switching }

// BlockSceneCallbacks globally suppresses scene event handling (including
// scene-switch reloads) until released.
func (l *Loader) BlockSceneCallbacks(block bool) { l.blockScene = block }

// SceneCallbacksBlocked reports whether scene callbacks are suppressed.
func (l *Loader) SceneCallbacksBlocked() bool { return l.blockScene }

// CycleID returns the ID of the current load cycle, empty when unloaded.
func (l *Loader) CycleID() string {
	if l.cycle == (uuid.UUID{}) {
		return ""
	}
	return l.cycle.String()
}

// Dispatcher exposes the event fan-out for the host adapter.
func (l *Loader) Dispatcher() *dispatch.Dispatcher { return l.disp }

// Module returns the loaded module with the given descriptor name.
func (l *Loader) Module(name string) (module.Module, bool) {
	for _, in := range l.set {
		if in.desc.Name == name {
			return in.inst, true
		}
	}
	return nil, false
}

// Modules returns the loaded module instances in load order.
func (l *Loader) Modules() []module.Module {
	out := make([]module.Module, len(l.set))
	for i, in := range l.set {
		out[i] = in.inst
	}
	return out
}

// Find returns the first loaded module of type T, in load order.
func Find[T any](l *Loader) (T, bool) {
	for _, in := range l.set {
		if m, ok := in.inst.(T); ok {
			return m, true
		}
	}
	var zero T
	return zero, false
}

// ModuleInfo is a read-only view of one installed module, for the debug
// endpoint and logs.
type ModuleInfo struct {
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	Capabilities string `json:"capabilities"`
	Node         string `json:"node,omitempty"`
}

// Snapshot returns the loaded set in load order.
func (l *Loader) Snapshot() []ModuleInfo {
	out := make([]ModuleInfo, len(l.set))
	for i, in := range l.set {
		out[i] = ModuleInfo{
			Name:         in.desc.Name,
			Kind:         in.desc.Kind.String(),
			Capabilities: in.caps.String(),
			Node:         string(in.node),
		}
	}
	return out
}

// SubscriberOrder returns the precomputed dispatch order for one category's
// order space. Load order is the set order itself.
func (l *Loader) SubscriberOrder(space order.Space) []string {
	if space == order.Load {
		names := make([]string, len(l.set))
		for i, in := range l.set {
			names[i] = in.desc.Name
		}
		return names
	}
	return l.disp.Subscribers(space)
}

// -----------------------------------------------------------------------------
// Build flags
// -----------------------------------------------------------------------------

// BeginBuild marks a build as in progress. While building, load requests are
// dropped and scene transitions do not reload modules.
func (l *Loader) BeginBuild() {
	l.building = true
	l.logger.Debug().Msg("build started, module loads gated")
}

// EndBuild clears the build-in-progress flag.
func (l *Loader) EndBuild() {
	l.building = false
	l.logger.Debug().Msg("build finished")
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// guard rejects re-entrant lifecycle transitions. It returns a release func
// when the transition may proceed.
func (l *Loader) guard() (func(), error) {
	if l.busy || l.disp.InFlight() {
		return nil, ErrReentrant
	}
	l.busy = true
	return func() { l.busy = false }, nil
}

// record writes a journal event, stamping time and cycle.
func (l *Loader) record(ctx context.Context, e ports.Event) {
	if l.journal == nil {
		return
	}
	e.Time = l.clock.Now()
	if e.Cycle == "" {
		e.Cycle = l.CycleID()
	}
	if err := l.journal.Record(ctx, e); err != nil {
		l.logger.Warn().Err(err).Str("kind", e.Kind).Msg("journal write failed")
	}
}

// safeHook runs a module hook with panic recovery, logging any failure.
func (l *Loader) safeHook(ctx context.Context, name, event string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			l.hookFailed(ctx, name, event, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		l.hookFailed(ctx, name, event, err)
	}
}

func (l *Loader) hookFailed(ctx context.Context, name, event string, err error) {
	l.logger.Error().
		Err(err).
		Str("module", name).
		Str("event", event).
		Msg("module hook failed")
	if l.metrics != nil {
		l.metrics.HookFailure(event)
	}
	l.record(ctx, ports.Event{Kind: "hook_failed", Module: name, Category: event, Detail: err.Error()})
}
