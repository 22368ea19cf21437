package loader

import (
	"context"
	"fmt"

	"github.com/modrig/modrig/domain/module"
	"github.com/modrig/modrig/ports"
)

// wire resolves every declared dependency against the loaded set and invokes
// the consumer's connect callback once per matching provider.
//
// This is a best-effort pass: a failing connection is logged and the
// remaining edges are still attempted. Multiple providers for the same tag
// all trigger a call; if the consumer keeps a single reference, the last
// successful call wins.
func (l *Loader) wire(ctx context.Context) {
	var connected, failed int

	for _, consumer := range l.set {
		if !consumer.caps.Has(module.CapConsumer) {
			continue
		}
		deps := consumer.inst.(module.DependencyConsumer).Dependencies()

		for _, dep := range deps {
			if dep.Connect == nil {
				l.logger.Warn().
					Str("module", consumer.desc.Name).
					Str("capability", string(dep.Capability)).
					Msg("dependency declared without connect callback")
				continue
			}

			for _, provider := range l.set {
				if provider == consumer || !provider.desc.Provides(dep.Capability) {
					continue
				}
				err := l.connect(consumer, provider, dep)
				if l.metrics != nil {
					l.metrics.WiringConnection(err != nil)
				}
				if err != nil {
					failed++
					l.logger.Error().
						Err(err).
						Str("consumer", consumer.desc.Name).
						Str("provider", provider.desc.Name).
						Str("capability", string(dep.Capability)).
						Msg("dependency connection failed")
					l.record(ctx, ports.Event{
						Kind:   "wiring_failed",
						Module: consumer.desc.Name,
						Detail: fmt.Sprintf("%s <- %s (%s): %v", consumer.desc.Name, provider.desc.Name, dep.Capability, err),
					})
					continue
				}
				connected++
			}
		}
	}

	l.logger.Debug().
		Int("connected", connected).
		Int("failed", failed).
		Msg("dependency wiring completed")
}

// connect runs one connect callback with panic recovery.
func (l *Loader) connect(consumer, provider *installed, dep module.Dependency) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in connect callback: %v", r)
		}
	}()
	return dep.Connect(provider.inst)
}
