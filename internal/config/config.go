// Package config provides configuration types, defaults, and persistence for panecode.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zjrosen/panecode/internal/flags"
	"github.com/zjrosen/panecode/internal/log"
	"github.com/zjrosen/panecode/internal/tracing"
)

// Config holds all configuration options for panecode.
type Config struct {
	DataDir     string          `mapstructure:"data_dir"`
	AutoRefresh bool            `mapstructure:"auto_refresh"`
	LastProject string          `mapstructure:"last_project"`
	UI          UIConfig        `mapstructure:"ui"`
	Log         LogConfig       `mapstructure:"log"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Tracing     tracing.Config  `mapstructure:"tracing"`
	Flags       map[string]bool `mapstructure:"flags"`
}

// UIConfig holds user interface configuration options.
type UIConfig struct {
	ShowStatusBar bool `mapstructure:"show_status_bar"`

	// TerminalHeightPercent is the share of the editor column given to the
	// terminal pane, 10..80.
	TerminalHeightPercent int `mapstructure:"terminal_height_percent"`

	// MarkdownStyle is the glamour style for the help overlay: "dark" or "light".
	MarkdownStyle string `mapstructure:"markdown_style"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // default: <data_dir>/debug.log
}

// CacheConfig controls in-memory caches.
type CacheConfig struct {
	ProjectNameTTL time.Duration `mapstructure:"project_name_ttl"`
}

// DefaultDataDir returns ~/.panecode, or ".panecode" when the home dir is unavailable.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".panecode"
	}
	return filepath.Join(home, ".panecode")
}

// DefaultTracesFilePath returns ~/.config/panecode/traces/traces.jsonl or ""
// if the home dir is unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "panecode", "traces", "traces.jsonl")
}

// DatabasePath returns the SQLite file inside the data dir.
func (c Config) DatabasePath() string {
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, "panecode.db")
}

// RecoveryDir returns where unsaved files are written when saving them fails.
func (c Config) RecoveryDir() string {
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, "recovery")
}

// LogPath returns the debug log file.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	dir := c.DataDir
	if dir == "" {
		dir = DefaultDataDir()
	}
	return filepath.Join(dir, "debug.log")
}

// FlagRegistry builds the feature flag registry from the flags section.
func (c Config) FlagRegistry() *flags.Registry {
	return flags.NewWithDefaults(c.Flags)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	tc := tracing.DefaultConfig()
	tc.FilePath = DefaultTracesFilePath()
	return Config{
		DataDir:     DefaultDataDir(),
		AutoRefresh: true,
		UI: UIConfig{
			ShowStatusBar:         true,
			TerminalHeightPercent: 25,
			MarkdownStyle:         "dark",
		},
		Log: LogConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			ProjectNameTTL: 10 * time.Minute,
		},
		Tracing: tc,
		Flags:   flags.Defaults(),
	}
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	if err := ValidateUI(c.UI); err != nil {
		return err
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		return err
	}
	if c.Cache.ProjectNameTTL < 0 {
		return fmt.Errorf("cache.project_name_ttl must not be negative, got %s", c.Cache.ProjectNameTTL)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ValidateUI checks UI configuration for errors.
func ValidateUI(ui UIConfig) error {
	if ui.TerminalHeightPercent < 10 || ui.TerminalHeightPercent > 80 {
		return fmt.Errorf("ui.terminal_height_percent must be between 10 and 80, got %d", ui.TerminalHeightPercent)
	}
	switch ui.MarkdownStyle {
	case "", "dark", "light":
	default:
		return fmt.Errorf("ui.markdown_style must be \"dark\" or \"light\", got %q", ui.MarkdownStyle)
	}
	return nil
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(tc tracing.Config) error {
	if tc.SampleRate < 0.0 || tc.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", tc.SampleRate)
	}

	if tc.Exporter != "" {
		switch tc.Exporter {
		case "none", "file", "stdout", "otlp":
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", tc.Exporter)
		}
	}

	if tc.Enabled {
		if tc.Exporter == "file" && tc.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if tc.Exporter == "otlp" && tc.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# panecode configuration

# Where the project database and debug log live (default: ~/.panecode)
# data_dir: /path/to/data

# Refresh the file list when the database changes on disk
auto_refresh: true

# UI settings
ui:
  show_status_bar: true          # Show status bar at bottom
  terminal_height_percent: 25    # Share of the editor column used by the terminal pane (10-80)
  markdown_style: dark           # Help overlay style: "dark" or "light"

# Debug log (enabled with --debug or PANECODE_DEBUG=1)
log:
  level: info

cache:
  project_name_ttl: 10m

# Feature flags
flags:
  # Empty a file's buffer when it is dragged into another pane while already open
  reset-content-on-reassign: false
  # Save unsaved edits when the process is interrupted
  persist-on-unload: true

# Tracing of session lifecycle and drag-drop
# tracing:
#   enabled: true
#   exporter: file
#   file_path: ~/.config/panecode/traces/traces.jsonl
#
# Example: Send traces to Jaeger via OTLP
# tracing:
#   enabled: true
#   exporter: otlp
#   otlp_endpoint: jaeger.internal:4317
#   sample_rate: 0.1
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
