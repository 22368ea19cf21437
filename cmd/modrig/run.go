package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/modrig/modrig/bootstrap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the host simulator with the built-in module set",
	Long: `Run loads the built-in modules and drives an engine-like loop:
behavior awake/enable/start, update ticks at the configured frame
interval, and a clean disable/destroy/unload on shutdown.

The debug endpoint (when enabled) exposes loader state, the loaded
module set, per-space dispatch orders and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHost(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runHost(ctx context.Context) error {
	a, err := bootstrap.New(bootstrap.Options{
		ConfigPath:       cfgFile,
		Watch:            true,
		RegisterBuiltins: true,
	})
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.Config.Get()

	if err := a.Loader.Load(ctx); err != nil {
		return fmt.Errorf("load modules: %w", err)
	}

	a.Host.Awake(ctx)
	a.Host.Enable(ctx)
	a.Host.Start(ctx)

	var server *http.Server
	if cfg.Debug.Enabled {
		router := a.DebugRouter().Router(a.Gatherer, cfg.Metrics.Path)
		server = &http.Server{
			Addr:              cfg.Debug.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			a.Logger.Info().Str("addr", cfg.Debug.Addr).Msg("debug endpoint listening")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				a.Logger.Error().Err(err).Msg("debug endpoint failed")
			}
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Host.FrameInterval)
	defer ticker.Stop()

	a.Logger.Info().
		Dur("frame_interval", cfg.Host.FrameInterval).
		Str("platform", cfg.Host.Platform).
		Str("mode", cfg.Host.Mode).
		Msg("host running")

loop:
	for {
		select {
		case <-ticker.C:
			a.Host.Update(ctx)
		case <-stop:
			break loop
		case <-ctx.Done():
			break loop
		}
	}

	a.Logger.Info().Msg("shutting down")

	a.Host.Disable(ctx)
	a.Host.Destroy(ctx)
	if err := a.Loader.Unload(ctx); err != nil {
		a.Logger.Error().Err(err).Msg("unload failed")
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.Logger.Warn().Err(err).Msg("debug endpoint shutdown failed")
		}
	}

	return nil
}
