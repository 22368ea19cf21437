package loader

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/modrig/modrig/core/dispatch"
	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/domain/order"
	"github.com/modrig/modrig/ports"
)

// moduleParentName is the hidden node all scene-backed modules live under.
const moduleParentName = "__modrig_modules__"

// Load instantiates every non-excluded registered module type, wires the set
// and activates it. A load while a build is in progress is silently dropped;
// a load while already loaded is a no-op.
func (l *Loader) Load(ctx context.Context) error {
	if l.building {
		l.logger.Debug().Msg("load request dropped, build in progress")
		return nil
	}
	if l.state == Loaded {
		l.logger.Debug().Msg("load request ignored, modules already loaded")
		return nil
	}

	release, err := l.guard()
	if err != nil {
		return err
	}
	defer release()

	l.state = Loading
	l.cycle = uuid.New()
	l.reinjected = false
	start := l.clock.Now()

	excluded := l.resolveExcluded()

	l.logger.Info().
		Str("cycle", l.CycleID()).
		Int("candidates", l.reg.Len()).
		Int("excluded", len(excluded)).
		Msg("loading modules")
	if l.metrics != nil {
		l.metrics.LoadStarted()
	}
	l.record(ctx, ports.Event{Kind: "load_started"})

	// Instantiation: one instance per non-excluded type, per-type isolation.
	for _, desc := range l.reg.All() {
		if excluded[desc.Name] {
			l.logger.Debug().Str("module", desc.Name).Msg("module excluded by settings")
			continue
		}
		in, err := l.construct(ctx, desc)
		if err != nil {
			l.logger.Error().Err(err).Str("module", desc.Name).Msg("module construction failed")
			if l.metrics != nil {
				l.metrics.ConstructFailure()
			}
			l.record(ctx, ports.Event{Kind: "construct_failed", Module: desc.Name, Detail: err.Error()})
			continue
		}
		l.set = append(l.set, in)
	}

	// Ordering: load order for the set itself; the dispatcher sorts its own
	// category lists. Orders are recomputed on every load, never cached.
	order.Sort(l.set, order.Load,
		func(in *installed) order.Keys { return in.desc.Orders },
		func(in *installed) string { return in.desc.Name })

	l.disp.Rebuild(l.entries())

	l.wire(ctx)
	l.inject(ctx)

	// Load hooks fire only after wiring and injection, in load order.
	for _, in := range l.set {
		if !in.caps.Has(module.CapLoad) {
			continue
		}
		h := in.inst.(module.Loadable)
		l.safeHook(ctx, in.desc.Name, "load", func() error { return h.LoadModule(ctx) })
	}

	// Activate scene-backed modules last so no engine callback fires
	// mid-construction.
	for _, in := range l.set {
		if in.node == "" {
			continue
		}
		if err := l.scene.SetActive(ctx, in.node, true); err != nil {
			l.logger.Error().Err(err).Str("module", in.desc.Name).Msg("module node activation failed")
		}
	}

	l.state = Loaded

	elapsed := l.clock.Now().Sub(start)
	l.logger.Info().
		Str("cycle", l.CycleID()).
		Int("modules", len(l.set)).
		Dur("elapsed", elapsed).
		Msg("modules loaded")
	if l.metrics != nil {
		l.metrics.LoadCompleted(len(l.set), elapsed)
	}
	l.record(ctx, ports.Event{Kind: "load_completed", Detail: fmt.Sprintf("%d modules", len(l.set))})

	return nil
}

// Unload tears the set down in unload order and clears every derived list.
// Calling Unload with nothing loaded performs no module callbacks.
func (l *Loader) Unload(ctx context.Context) error {
	release, err := l.guard()
	if err != nil {
		return err
	}
	defer release()

	if l.state == Unloaded && len(l.set) == 0 {
		return nil
	}

	l.state = Unloading
	l.logger.Info().Str("cycle", l.CycleID()).Int("modules", len(l.set)).Msg("unloading modules")
	l.record(ctx, ports.Event{Kind: "unload_started"})

	l.disp.UnloadAll(ctx)

	// Destroy scene-backed module nodes before dropping the set.
	for _, in := range l.set {
		if in.node == "" {
			continue
		}
		if err := l.scene.DestroyNode(ctx, in.node); err != nil {
			l.logger.Error().Err(err).Str("module", in.desc.Name).Msg("module node destroy failed")
		}
	}

	l.disp.Clear()
	l.set = nil
	l.state = Unloaded

	if l.parent != "" {
		if err := l.scene.DestroyNode(ctx, l.parent); err != nil {
			l.logger.Error().Err(err).Msg("module parent destroy failed")
		}
		l.parent = ""
	}

	if l.metrics != nil {
		l.metrics.UnloadCompleted()
	}
	l.record(ctx, ports.Event{Kind: "unload_completed"})
	l.cycle = uuid.UUID{}

	return nil
}

// Reload is Unload followed by Load, with no externally observable loaded
// state in between. Dropped while a build is in progress, like Load.
func (l *Loader) Reload(ctx context.Context) error {
	if l.building {
		l.logger.Debug().Msg("reload request dropped, build in progress")
		return nil
	}
	if err := l.Unload(ctx); err != nil {
		return err
	}
	return l.Load(ctx)
}

// SwitchScene performs the full reload triggered by a single-scene
// transition, with the scene-switch flag visible to queries for its duration.
func (l *Loader) SwitchScene(ctx context.Context) error {
	l.switching = true
	defer func() { l.switching = false }()
	return l.Reload(ctx)
}

// -----------------------------------------------------------------------------
// Instantiation
// -----------------------------------------------------------------------------

// construct builds one module instance using the strategy its kind declares.
func (l *Loader) construct(ctx context.Context, desc module.Descriptor) (*installed, error) {
	var (
		inst module.Module
		node module.NodeID
		err  error
	)

	switch desc.Kind {
	case module.KindSettings:
		inst, err = l.singleton(desc)

	case module.KindSceneObject:
		inst, node, err = l.constructSceneObject(ctx, desc)

	default:
		inst, err = desc.New()
	}

	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("constructor for %q returned no instance", desc.Name)
	}

	return &installed{
		desc: desc,
		caps: module.CapabilitiesOf(inst),
		inst: inst,
		node: node,
	}, nil
}

// singleton returns the process-wide instance for a settings module,
// constructing it on first use.
func (l *Loader) singleton(desc module.Descriptor) (module.Module, error) {
	if inst, ok := l.singletons[desc.Name]; ok {
		return inst, nil
	}
	inst, err := desc.New()
	if err != nil {
		return nil, err
	}
	if inst != nil {
		l.singletons[desc.Name] = inst
	}
	return inst, nil
}

// constructSceneObject creates the module's node inactive under the hidden
// module parent. Activation is deferred until the wiring pipeline completes.
func (l *Loader) constructSceneObject(ctx context.Context, desc module.Descriptor) (module.Module, module.NodeID, error) {
	if l.scene == nil {
		return nil, "", fmt.Errorf("module %q requires a scene graph", desc.Name)
	}

	if l.parent == "" {
		parent, err := l.scene.CreateNode(ctx, moduleParentName, "", true)
		if err != nil {
			return nil, "", fmt.Errorf("create module parent: %w", err)
		}
		l.parent = parent
	}

	node, err := l.scene.CreateNode(ctx, desc.Name, l.parent, false)
	if err != nil {
		return nil, "", fmt.Errorf("create module node: %w", err)
	}

	inst, err := desc.New()
	if err != nil || inst == nil {
		// The orphan node must not leak when construction fails.
		if derr := l.scene.DestroyNode(ctx, node); derr != nil {
			l.logger.Warn().Err(derr).Str("module", desc.Name).Msg("orphan node cleanup failed")
		}
		return inst, "", err
	}

	if nb, ok := inst.(module.NodeBound); ok {
		nb.BindNode(node)
	}
	return inst, node, nil
}

// resolveExcluded snapshots the excluded-type set for this load.
func (l *Loader) resolveExcluded() map[string]bool {
	if l.excluded == nil {
		return nil
	}
	names := l.excluded()
	if len(names) == 0 {
		return nil
	}
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

// entries projects the loaded set for the dispatcher.
func (l *Loader) entries() []dispatch.Entry {
	out := make([]dispatch.Entry, len(l.set))
	for i, in := range l.set {
		out[i] = dispatch.Entry{
			Name: in.desc.Name,
			Keys: in.desc.Orders,
			Caps: in.caps,
			Inst: in.inst,
		}
	}
	return out
}
