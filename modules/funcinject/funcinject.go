// Package funcinject provides the functionality-injection module: it owns
// the provider/consumer islands and performs injection when the loader asks.
package funcinject

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/domain/module"
)

// Name is the module's fully-qualified type name.
const Name = "modrig/funcinject.Module"

// Receiver is implemented by modules that accept injected functionality.
// Modules not implementing it are skipped during injection.
type Receiver interface {
	InjectFunctionality(tag module.Tag, provider module.Provider) error
}

// Island is one isolated provider/consumer partition.
type Island struct {
	name string
	log  zerolog.Logger

	mu        sync.Mutex
	providers []module.Provider
	seen      map[module.Provider]bool
}

// NewIsland creates an empty island.
func NewIsland(name string, logger zerolog.Logger) *Island {
	return &Island{
		name: name,
		log:  logger,
		seen: make(map[module.Provider]bool),
	}
}

// Name returns the island name.
func (i *Island) Name() string { return i.name }

// AddProvider registers a provider. Re-adding a known provider is a no-op so
// the loader can re-run injection idempotently.
func (i *Island) AddProvider(p module.Provider) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.seen[p] {
		return nil
	}
	i.seen[p] = true
	i.providers = append(i.providers, p)
	return nil
}

// Inject hands every provider's functionality to the target, if the target
// accepts injection. Providers are never injected into themselves.
func (i *Island) Inject(ctx context.Context, target module.Module) error {
	receiver, ok := target.(Receiver)
	if !ok {
		return nil
	}

	i.mu.Lock()
	providers := make([]module.Provider, len(i.providers))
	copy(providers, i.providers)
	i.mu.Unlock()

	for _, p := range providers {
		if p == target {
			continue
		}
		for _, tag := range p.Functionalities() {
			if err := receiver.InjectFunctionality(tag, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// Module is the injection module. It owns one default island; hosts needing
// isolation can add more, with only the active island used for injection.
type Module struct {
	log     zerolog.Logger
	islands []*Island
	active  *Island
}

// New creates the injection module with a single active "main" island.
func New(logger zerolog.Logger) *Module {
	main := NewIsland("main", logger)
	return &Module{
		log:     logger,
		islands: []*Island{main},
		active:  main,
	}
}

// AddIsland creates an additional island.
func (m *Module) AddIsland(name string) *Island {
	island := NewIsland(name, m.log)
	m.islands = append(m.islands, island)
	return island
}

// SetActive selects the island used for injection.
func (m *Module) SetActive(island *Island) { m.active = island }

// BeforeLoad runs before providers are registered for a cycle.
func (m *Module) BeforeLoad(ctx context.Context) error {
	m.log.Debug().Int("islands", len(m.islands)).Msg("functionality injection starting")
	return nil
}

// Islands returns every island the module owns.
func (m *Module) Islands() []module.Island {
	out := make([]module.Island, len(m.islands))
	for i, island := range m.islands {
		out[i] = island
	}
	return out
}

// ActiveIsland returns the island used to inject the loaded set.
func (m *Module) ActiveIsland() module.Island { return m.active }

// Descriptor returns the module's registration descriptor.
func Descriptor(logger zerolog.Logger) module.Descriptor {
	return module.Descriptor{
		Name: Name,
		Kind: module.KindDefault,
		New: func() (module.Module, error) {
			return New(logger), nil
		},
	}
}
