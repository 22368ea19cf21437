package config_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/modrig/modrig/config"
)

func TestHolder_Reload(t *testing.T) {
	path := writeConfig(t, "modules:\n  excluded: [a.Module]\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder() error = %v", err)
	}
	defer h.Stop()

	var notified int
	h.OnChange(func(*config.Config) { notified++ })

	if got := h.Get().Modules.Excluded; len(got) != 1 || got[0] != "a.Module" {
		t.Fatalf("initial excluded = %v, want [a.Module]", got)
	}

	if err := os.WriteFile(path, []byte("modules:\n  excluded: [a.Module, b.Module]\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	if got := h.Get().Modules.Excluded; len(got) != 2 {
		t.Errorf("excluded after reload = %v, want two entries", got)
	}
	if notified != 1 {
		t.Errorf("OnChange ran %d times, want 1", notified)
	}
}

func TestHolder_ReloadKeepsOldConfigOnError(t *testing.T) {
	path := writeConfig(t, "host:\n  mode: editor\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewHolder() error = %v", err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("host:\n  mode: turbo\n"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if err := h.Reload(); err == nil {
		t.Fatal("Reload() with invalid config should fail")
	}

	if got := h.Get().Host.Mode; got != config.ModeEditor {
		t.Errorf("Host.Mode after failed reload = %q, want the old editor mode", got)
	}
}

func TestStaticHolder(t *testing.T) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	h := config.NewStaticHolder(cfg, zerolog.Nop())
	defer h.Stop()

	if h.Get() != cfg {
		t.Error("Get() returned a different config")
	}
	if err := h.Reload(); err == nil {
		t.Error("Reload() on a static holder should fail")
	}
}
