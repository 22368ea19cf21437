package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modrig/modrig/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "modrig.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
host:
  platform: linux
  mode: editor
  frame_interval: 33ms
modules:
  excluded:
    - legacy.Module
logging:
  level: debug
  format: console
journal:
  driver: memory
debug:
  enabled: true
  addr: 127.0.0.1:9000
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host.Platform != "linux" {
		t.Errorf("Host.Platform = %q, want \"linux\"", cfg.Host.Platform)
	}
	if cfg.Host.Mode != config.ModeEditor {
		t.Errorf("Host.Mode = %q, want editor", cfg.Host.Mode)
	}
	if cfg.Host.FrameInterval != 33*time.Millisecond {
		t.Errorf("Host.FrameInterval = %v, want 33ms", cfg.Host.FrameInterval)
	}
	if len(cfg.Modules.Excluded) != 1 || cfg.Modules.Excluded[0] != "legacy.Module" {
		t.Errorf("Modules.Excluded = %v, want [legacy.Module]", cfg.Modules.Excluded)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Errorf("Logging = %+v, want debug/console", cfg.Logging)
	}
	if cfg.Journal.Driver != "memory" {
		t.Errorf("Journal.Driver = %q, want \"memory\"", cfg.Journal.Driver)
	}
	if cfg.Debug.Addr != "127.0.0.1:9000" {
		t.Errorf("Debug.Addr = %q, want \"127.0.0.1:9000\"", cfg.Debug.Addr)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "host:\n  mode: player\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Host.FrameInterval != 16*time.Millisecond {
		t.Errorf("Host.FrameInterval = %v, want 16ms default", cfg.Host.FrameInterval)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v, want info/json defaults", cfg.Logging)
	}
	if cfg.Journal.Driver != "none" {
		t.Errorf("Journal.Driver = %q, want \"none\" default", cfg.Journal.Driver)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want disabled by default")
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want \"/metrics\" default", cfg.Metrics.Path)
	}
	if cfg.Debug.Addr != "127.0.0.1:7477" {
		t.Errorf("Debug.Addr = %q, want default", cfg.Debug.Addr)
	}
}

func TestLoad_InvalidMode(t *testing.T) {
	path := writeConfig(t, "host:\n  mode: turbo\n")

	if _, err := config.Load(path); err == nil {
		t.Error("Load() should fail on invalid host.mode")
	}
}

func TestLoad_SqliteRequiresDSN(t *testing.T) {
	path := writeConfig(t, "journal:\n  driver: sqlite\n")

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("Load() should fail when sqlite journal has no dsn")
	}
	if !strings.Contains(err.Error(), "journal.dsn") {
		t.Errorf("error = %v, want mention of journal.dsn", err)
	}
}

func TestLoad_InvalidOverrideMode(t *testing.T) {
	path := writeConfig(t, `
modules:
  overrides:
    - mode: turbo
      excluded: [x.Module]
`)

	if _, err := config.Load(path); err == nil {
		t.Error("Load() should fail on invalid override mode")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MODRIG_PLATFORM", "windows")
	t.Setenv("MODRIG_MODE", "play")
	t.Setenv("MODRIG_FRAME_INTERVAL", "8ms")
	t.Setenv("MODRIG_LOG_LEVEL", "warn")
	t.Setenv("MODRIG_JOURNAL_DRIVER", "memory")
	t.Setenv("MODRIG_METRICS_ENABLED", "yes")
	t.Setenv("MODRIG_DEBUG_ADDR", "0.0.0.0:8000")

	cfg, err := config.LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.Host.Platform != "windows" {
		t.Errorf("Host.Platform = %q, want \"windows\"", cfg.Host.Platform)
	}
	if cfg.Host.Mode != config.ModePlay {
		t.Errorf("Host.Mode = %q, want play", cfg.Host.Mode)
	}
	if cfg.Host.FrameInterval != 8*time.Millisecond {
		t.Errorf("Host.FrameInterval = %v, want 8ms", cfg.Host.FrameInterval)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want \"warn\"", cfg.Logging.Level)
	}
	if cfg.Journal.Driver != "memory" {
		t.Errorf("Journal.Driver = %q, want \"memory\"", cfg.Journal.Driver)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if !cfg.Debug.Enabled || cfg.Debug.Addr != "0.0.0.0:8000" {
		t.Errorf("Debug = %+v, want enabled at 0.0.0.0:8000", cfg.Debug)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("MODRIG_LOG_LEVEL", "error")
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override \"error\"", cfg.Logging.Level)
	}
}

func TestLoadWithFallback(t *testing.T) {
	cfg, err := config.LoadWithFallback(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWithFallback() error = %v", err)
	}
	if cfg.Host.Mode != config.ModePlayer {
		t.Errorf("Host.Mode = %q, want player default", cfg.Host.Mode)
	}
}

func TestModulesConfig_ResolveExcluded(t *testing.T) {
	m := config.ModulesConfig{
		Overrides: []config.Override{
			{Platform: "windows", Mode: "editor", Excluded: []string{"win-editor.Module"}},
			{Platform: "windows", Excluded: []string{"win-any.Module"}},
			{Excluded: []string{"fallback.Module"}},
		},
	}

	tests := []struct {
		name     string
		explicit []string
		platform string
		mode     string
		want     string
	}{
		{"explicit wins", []string{"explicit.Module"}, "windows", "editor", "explicit.Module"},
		{"exact override", nil, "windows", "editor", "win-editor.Module"},
		{"platform wildcard mode", nil, "windows", "play", "win-any.Module"},
		{"full wildcard", nil, "linux", "player", "fallback.Module"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m
			m.Excluded = tt.explicit
			got := m.ResolveExcluded(tt.platform, tt.mode)
			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("ResolveExcluded(%s, %s) = %v, want [%s]", tt.platform, tt.mode, got, tt.want)
			}
		})
	}

	if got := (config.ModulesConfig{}).ResolveExcluded("linux", "player"); got != nil {
		t.Errorf("ResolveExcluded() with no config = %v, want nil", got)
	}
}

func TestOverride_Matches(t *testing.T) {
	tests := []struct {
		override config.Override
		platform string
		mode     string
		want     bool
	}{
		{config.Override{}, "linux", "player", true},
		{config.Override{Platform: "linux"}, "linux", "editor", true},
		{config.Override{Platform: "windows"}, "linux", "editor", false},
		{config.Override{Mode: "editor"}, "linux", "editor", true},
		{config.Override{Platform: "linux", Mode: "play"}, "linux", "player", false},
	}

	for _, tt := range tests {
		if got := tt.override.Matches(tt.platform, tt.mode); got != tt.want {
			t.Errorf("%+v.Matches(%s, %s) = %v, want %v", tt.override, tt.platform, tt.mode, got, tt.want)
		}
	}
}
