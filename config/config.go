// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Modes the host can run in. Settings overrides are keyed by platform and
// mode.
const (
	ModeEditor = "editor"
	ModePlay   = "play"
	ModePlayer = "player"
)

// Config is the root configuration structure.
type Config struct {
	Host    HostConfig    `yaml:"host"`
	Modules ModulesConfig `yaml:"modules"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Journal JournalConfig `yaml:"journal"`
	Debug   DebugConfig   `yaml:"debug"`
}

// HostConfig describes the engine host the orchestrator runs inside.
type HostConfig struct {
	Platform      string        `yaml:"platform"`       // e.g. "linux", "windows"
	Mode          string        `yaml:"mode"`           // "editor", "play" or "player"
	FrameInterval time.Duration `yaml:"frame_interval"` // update tick period for the run command
}

// ModulesConfig selects which module types are excluded from loading.
type ModulesConfig struct {
	// Excluded is the explicit excluded-type list, by fully-qualified name.
	// When non-empty it takes priority over every override.
	Excluded []string `yaml:"excluded"`

	// Overrides is a prioritized list of platform×mode overrides. The first
	// entry matching the active platform and mode applies; an empty platform
	// or mode field matches anything.
	Overrides []Override `yaml:"overrides"`
}

// Override points a platform×mode combination at an alternate excluded list.
type Override struct {
	Platform string   `yaml:"platform"`
	Mode     string   `yaml:"mode"`
	Excluded []string `yaml:"excluded"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // Enable /metrics on the debug endpoint
	Path    string `yaml:"path"`    // Custom path (default: /metrics)
}

// JournalConfig configures the lifecycle journal.
type JournalConfig struct {
	Driver string `yaml:"driver"` // "none", "memory" or "sqlite"
	DSN    string `yaml:"dsn"`    // sqlite file path
}

// DebugConfig configures the read-only debug HTTP endpoint.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// ResolveExcluded returns the excluded-type list for the given platform and
// mode. Priority chain: explicit list > first matching override > none.
func (m ModulesConfig) ResolveExcluded(platform, mode string) []string {
	if len(m.Excluded) > 0 {
		return m.Excluded
	}
	for _, o := range m.Overrides {
		if o.Matches(platform, mode) {
			return o.Excluded
		}
	}
	return nil
}

// Matches reports whether the override applies to the given platform and
// mode. Empty fields match anything.
func (o Override) Matches(platform, mode string) bool {
	if o.Platform != "" && o.Platform != platform {
		return false
	}
	if o.Mode != "" && o.Mode != mode {
		return false
	}
	return true
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	MODRIG_PLATFORM         - Active platform (default: runtime.GOOS)
//	MODRIG_MODE             - Host mode: editor, play or player (default: player)
//	MODRIG_FRAME_INTERVAL   - Update tick period (default: 16ms)
//	MODRIG_LOG_LEVEL        - Log level: debug, info, warn, error (default: info)
//	MODRIG_LOG_FORMAT       - Log format: json or console (default: json)
//	MODRIG_JOURNAL_DRIVER   - Journal driver: none, memory or sqlite (default: none)
//	MODRIG_JOURNAL_DSN      - Journal sqlite path
//	MODRIG_METRICS_ENABLED  - Enable /metrics (default: false)
//	MODRIG_DEBUG_ADDR       - Debug endpoint address (default: 127.0.0.1:7477)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback tries to load from file, falls back to environment
// variables when the file does not exist.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return LoadFromEnv()
}

// applyEnvOverrides applies MODRIG_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODRIG_PLATFORM"); v != "" {
		cfg.Host.Platform = v
	}
	if v := os.Getenv("MODRIG_MODE"); v != "" {
		cfg.Host.Mode = v
	}
	if v := os.Getenv("MODRIG_FRAME_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Host.FrameInterval = d
		}
	}

	if v := os.Getenv("MODRIG_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("MODRIG_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	if v := os.Getenv("MODRIG_JOURNAL_DRIVER"); v != "" {
		cfg.Journal.Driver = v
	}
	if v := os.Getenv("MODRIG_JOURNAL_DSN"); v != "" {
		cfg.Journal.DSN = v
	}

	if v := os.Getenv("MODRIG_METRICS_ENABLED"); v != "" {
		cfg.Metrics.Enabled = parseBool(v)
	}
	if v := os.Getenv("MODRIG_DEBUG_ADDR"); v != "" {
		cfg.Debug.Addr = v
		cfg.Debug.Enabled = true
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Host.Platform == "" {
		cfg.Host.Platform = runtime.GOOS
	}
	if cfg.Host.Mode == "" {
		cfg.Host.Mode = ModePlayer
	}
	if cfg.Host.FrameInterval == 0 {
		cfg.Host.FrameInterval = 16 * time.Millisecond
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = "none"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	if cfg.Debug.Addr == "" {
		cfg.Debug.Addr = "127.0.0.1:7477"
	}
}

func validate(cfg *Config) error {
	validModes := map[string]bool{ModeEditor: true, ModePlay: true, ModePlayer: true}
	if !validModes[cfg.Host.Mode] {
		return fmt.Errorf("host.mode must be 'editor', 'play' or 'player', got %q", cfg.Host.Mode)
	}

	if cfg.Host.FrameInterval <= 0 {
		return fmt.Errorf("host.frame_interval must be positive")
	}

	validDrivers := map[string]bool{"none": true, "memory": true, "sqlite": true}
	if !validDrivers[cfg.Journal.Driver] {
		return fmt.Errorf("journal.driver must be 'none', 'memory' or 'sqlite', got %q", cfg.Journal.Driver)
	}
	if cfg.Journal.Driver == "sqlite" && cfg.Journal.DSN == "" {
		return fmt.Errorf("journal.dsn is required when journal.driver is 'sqlite'")
	}

	for i, o := range cfg.Modules.Overrides {
		if o.Mode != "" && !validModes[o.Mode] {
			return fmt.Errorf("modules.overrides[%d].mode %q is not a valid mode", i, o.Mode)
		}
	}

	return nil
}
