// Package config loads and validates the pwnflow-tui configuration.
// Configuration comes from a YAML file in the user's config directory,
// overridable through PWNFLOW_* environment variables and command-line
// flags bound into viper by the cmd package.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the complete pwnflow-tui configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Editing EditingConfig `mapstructure:"editing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig controls how the client talks to the Pwnflow backend
type APIConfig struct {
	// BaseURL is the root URL of the backend API (e.g., "https://pwnflow.local/api/v1")
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSeconds bounds every gateway call; a timeout surfaces as an
	// ordinary failure and is never retried automatically
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	// Token is the bearer token used for authenticated calls.
	// Usually supplied via PWNFLOW_API_TOKEN rather than the config file.
	Token string `mapstructure:"token"`
	// Project is the default project ID to open at startup
	Project string `mapstructure:"project"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// SidebarWidth is the width of the node sidebar in columns (min: 20, max: 60)
	SidebarWidth int `mapstructure:"sidebar_width"`
	// Theme is the color theme for the TUI (default: "default")
	// Options: "default", "dark", "light"
	Theme string `mapstructure:"theme"`
	// ShowEditIndicator toggles the per-field "editing" marker driven by
	// the session store
	ShowEditIndicator bool `mapstructure:"show_edit_indicator"`
}

// EditingConfig controls edit session behavior
type EditingConfig struct {
	// CommitOnBlur commits the buffered value when a field loses focus
	// (default: true). When false, only the explicit commit gesture saves.
	CommitOnBlur bool `mapstructure:"commit_on_blur"`
}

// LoggingConfig controls debug logging
type LoggingConfig struct {
	// Enabled turns file logging on or off
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the log directory; empty means {configDir}/logs
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the log file size at which rotation occurs (0 disables)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of rotated log files to keep
	MaxBackups int `mapstructure:"max_backups"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000/api/v1",
			TimeoutSeconds: 10,
		},
		TUI: TUIConfig{
			SidebarWidth:      36,
			Theme:             "default",
			ShowEditIndicator: true,
		},
		Editing: EditingConfig{
			CommitOnBlur: true,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Timeout returns the gateway call timeout as a time.Duration
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ResolveLogDir returns the effective log directory
func (c *LoggingConfig) ResolveLogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// SetDefaults registers all default values with viper
func SetDefaults() {
	defaults := Default()

	// API defaults
	viper.SetDefault("api.base_url", defaults.API.BaseURL)
	viper.SetDefault("api.timeout_seconds", defaults.API.TimeoutSeconds)
	viper.SetDefault("api.token", defaults.API.Token)
	viper.SetDefault("api.project", defaults.API.Project)

	// TUI defaults
	viper.SetDefault("tui.sidebar_width", defaults.TUI.SidebarWidth)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)
	viper.SetDefault("tui.show_edit_indicator", defaults.TUI.ShowEditIndicator)

	// Editing defaults
	viper.SetDefault("editing.commit_on_blur", defaults.Editing.CommitOnBlur)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
}

// Init wires viper to the config file and environment. Missing config
// files are fine; defaults and environment cover everything.
func Init() error {
	SetDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ConfigDir())

	viper.SetEnvPrefix("PWNFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Watch re-reads the config file when it changes on disk and invokes
// onChange with the freshly loaded configuration. Invalid edits are
// ignored so a half-saved file cannot take down a running session.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(fsnotify.Event) {
		cfg, err := Load()
		if err != nil {
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pwnflow")
	}
	// Fall back to ~/.config/pwnflow
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pwnflow"
	}
	return filepath.Join(home, ".config", "pwnflow")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidThemes returns the list of valid TUI theme names
func ValidThemes() []string {
	return []string{"default", "dark", "light"}
}

// IsValidTheme checks if the given theme name is valid
func IsValidTheme(theme string) bool {
	for _, valid := range ValidThemes() {
		if theme == valid {
			return true
		}
	}
	return false
}
