package loader

import (
	"context"

	"github.com/modrig/modrig/domain/module"
)

// inject runs the functionality-injection pass: if an injection module is
// present, register every provider into all of its islands, then inject the
// active island's functionality into every loaded module. A missing injector
// is a normal configuration and the pass is silently skipped.
//
// During load this runs after dependency wiring and before any module's load
// hook. It runs once more, after the first behavior awake of the cycle, to
// catch providers that did not exist at scene-analysis time; islands must
// tolerate duplicate provider registration to keep that re-run idempotent.
func (l *Loader) inject(ctx context.Context) {
	injector := l.findInjector()
	if injector == nil {
		l.logger.Debug().Msg("no functionality-injection module loaded, injection skipped")
		return
	}

	providers := l.providers()

	l.safeHook(ctx, l.injectorName(), "inject_before_load", func() error {
		return injector.BeforeLoad(ctx)
	})

	for _, island := range injector.Islands() {
		for _, p := range providers {
			if err := island.AddProvider(p); err != nil {
				l.logger.Debug().Err(err).Msg("provider registration skipped")
			}
		}
	}

	active := injector.ActiveIsland()
	if active == nil {
		l.logger.Debug().Msg("injector has no active island")
		return
	}

	for _, in := range l.set {
		target := in
		l.safeHook(ctx, target.desc.Name, "inject", func() error {
			return active.Inject(ctx, target.inst)
		})
	}

	l.logger.Debug().
		Int("providers", len(providers)).
		Int("islands", len(injector.Islands())).
		Msg("functionality injection completed")
}

// EnsureInjected re-runs injection once after the first behavior awake of the
// current cycle. Safe to call repeatedly; later calls are no-ops.
func (l *Loader) EnsureInjected(ctx context.Context) {
	if l.state != Loaded || l.reinjected {
		return
	}
	l.reinjected = true
	l.inject(ctx)
}

// findInjector returns the injection module, first in load order. More than
// one injector is a configuration mistake; extras are ignored with a warning.
func (l *Loader) findInjector() module.Injector {
	var found module.Injector
	for _, in := range l.set {
		if !in.caps.Has(module.CapInjector) {
			continue
		}
		if found != nil {
			l.logger.Warn().Str("module", in.desc.Name).Msg("extra injection module ignored")
			continue
		}
		found = in.inst.(module.Injector)
	}
	return found
}

func (l *Loader) injectorName() string {
	for _, in := range l.set {
		if in.caps.Has(module.CapInjector) {
			return in.desc.Name
		}
	}
	return ""
}

// providers collects every loaded module with the provider capability, in
// load order.
func (l *Loader) providers() []module.Provider {
	var out []module.Provider
	for _, in := range l.set {
		if in.caps.Has(module.CapProvider) {
			out = append(out, in.inst.(module.Provider))
		}
	}
	return out
}
