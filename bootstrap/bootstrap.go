// Package bootstrap assembles the orchestrator from configuration: logger,
// metrics, journal, registry, loader, host adapter and debug endpoint.
package bootstrap

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/modrig/modrig/adapters/clock"
	adapterhttp "github.com/modrig/modrig/adapters/http"
	"github.com/modrig/modrig/adapters/metrics"
	"github.com/modrig/modrig/adapters/scene"
	"github.com/modrig/modrig/adapters/sqlite"
	"github.com/modrig/modrig/app"
	"github.com/modrig/modrig/config"
	"github.com/modrig/modrig/core/loader"
	"github.com/modrig/modrig/core/registry"
	"github.com/modrig/modrig/modules"
	"github.com/modrig/modrig/ports"

	memadapter "github.com/modrig/modrig/adapters/memory"
)

// App holds the assembled orchestrator.
type App struct {
	Config   *config.Holder
	Logger   zerolog.Logger
	Registry *registry.Registry
	Loader   *loader.Loader
	Host     *app.Host
	Scene    *scene.Graph
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	journal ports.Journal
}

// Options configures assembly.
type Options struct {
	// ConfigPath is the YAML config file. Empty falls back to environment
	// variables.
	ConfigPath string

	// Watch enables config file watching and SIGHUP reload.
	Watch bool

	// Scene overrides the scene graph; defaults to the in-memory adapter.
	Scene *scene.Graph

	// RegisterBuiltins controls whether the built-in module set is
	// registered. The host can register its own descriptors afterwards.
	RegisterBuiltins bool
}

// New assembles the orchestrator.
func New(opts Options) (*App, error) {
	cfg, err := config.LoadWithFallback(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	logger := setupLogger(cfg.Logging)

	var holder *config.Holder
	if opts.ConfigPath != "" {
		if _, serr := os.Stat(opts.ConfigPath); serr == nil {
			holder, err = config.NewHolder(opts.ConfigPath, logger)
			if err != nil {
				return nil, err
			}
		}
	}
	if holder == nil {
		holder = config.NewStaticHolder(cfg, logger)
	}

	if opts.Watch {
		if err := holder.WatchFile(); err != nil {
			logger.Warn().Err(err).Msg("config watch unavailable")
		}
		holder.WatchSignals()
	}

	a := &App{
		Config:   holder,
		Logger:   logger,
		Registry: registry.New(),
		Scene:    opts.Scene,
	}
	if a.Scene == nil {
		a.Scene = scene.NewGraph()
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		a.Metrics = metrics.New(reg)
		a.Gatherer = reg
	}

	a.journal, err = openJournal(cfg.Journal, logger)
	if err != nil {
		return nil, err
	}

	if opts.RegisterBuiltins {
		if err := modules.RegisterBuiltins(a.Registry, logger); err != nil {
			return nil, err
		}
	}

	loaderOpts := loader.Options{
		Logger:  logger,
		Scene:   a.Scene,
		Journal: a.journal,
		Clock:   clock.Real{},
		Excluded: func() []string {
			c := holder.Get()
			return c.Modules.ResolveExcluded(c.Host.Platform, c.Host.Mode)
		},
	}
	if a.Metrics != nil {
		loaderOpts.Metrics = a.Metrics
	}

	a.Loader = loader.New(a.Registry, loaderOpts)
	a.Host = app.NewHost(a.Loader, logger)

	return a, nil
}

// DebugRouter builds the debug endpoint router, or nil when it is disabled.
func (a *App) DebugRouter() *adapterhttp.DebugHandler {
	return adapterhttp.NewDebugHandler(a.Loader, a.Logger)
}

// Close releases resources.
func (a *App) Close() error {
	a.Config.Stop()
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			return fmt.Errorf("close journal: %w", err)
		}
	}
	return nil
}

func openJournal(cfg config.JournalConfig, logger zerolog.Logger) (ports.Journal, error) {
	switch cfg.Driver {
	case "memory":
		return memadapter.NewJournal(), nil
	case "sqlite":
		j, err := sqlite.NewJournal(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		logger.Info().Str("path", cfg.DSN).Msg("lifecycle journal enabled")
		return j, nil
	default:
		return nil, nil
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		return zerolog.New(output).With().Timestamp().Logger()
	}

	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
