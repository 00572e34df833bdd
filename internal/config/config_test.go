package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("Default() config has validation errors: %v", ValidationErrors(errs))
	}
}

func TestLoad_Defaults(t *testing.T) {
	resetViper(t)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000/api/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout() != 10*time.Second {
		t.Errorf("API.Timeout() = %v, want 10s", cfg.API.Timeout())
	}
	if !cfg.Editing.CommitOnBlur {
		t.Error("Editing.CommitOnBlur = false, want true")
	}
	if cfg.TUI.SidebarWidth != 36 {
		t.Errorf("TUI.SidebarWidth = %d, want 36", cfg.TUI.SidebarWidth)
	}
}

func TestLoad_FromFile(t *testing.T) {
	resetViper(t)
	SetDefaults()

	dir := t.TempDir()
	content := []byte("api:\n  base_url: https://pwnflow.example.com/api/v1\n  timeout_seconds: 30\nediting:\n  commit_on_blur: false\n")
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.API.BaseURL != "https://pwnflow.example.com/api/v1" {
		t.Errorf("API.BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSeconds != 30 {
		t.Errorf("API.TimeoutSeconds = %d, want 30", cfg.API.TimeoutSeconds)
	}
	if cfg.Editing.CommitOnBlur {
		t.Error("Editing.CommitOnBlur = true, want false")
	}
	// Untouched sections keep their defaults.
	if cfg.TUI.Theme != "default" {
		t.Errorf("TUI.Theme = %q, want default", cfg.TUI.Theme)
	}
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("api.timeout_seconds", -1)

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted negative timeout")
	}
}

func TestGet_FallsBackToDefaults(t *testing.T) {
	resetViper(t)
	SetDefaults()
	viper.Set("tui.sidebar_width", 5) // invalid, forces fallback

	cfg := Get()
	if cfg.TUI.SidebarWidth != Default().TUI.SidebarWidth {
		t.Errorf("Get() did not fall back to defaults: sidebar = %d", cfg.TUI.SidebarWidth)
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg-test", "pwnflow") {
		t.Errorf("ConfigDir() = %q", got)
	}
}

func TestResolveLogDir(t *testing.T) {
	lc := LoggingConfig{Dir: "/var/log/pwnflow"}
	if got := lc.ResolveLogDir(); got != "/var/log/pwnflow" {
		t.Errorf("ResolveLogDir() = %q", got)
	}

	lc = LoggingConfig{}
	if got := lc.ResolveLogDir(); !strings.HasSuffix(got, "logs") {
		t.Errorf("ResolveLogDir() = %q, want .../logs", got)
	}
}

func TestIsValidTheme(t *testing.T) {
	for _, theme := range ValidThemes() {
		if !IsValidTheme(theme) {
			t.Errorf("IsValidTheme(%q) = false", theme)
		}
	}
	if IsValidTheme("solarized") {
		t.Error("IsValidTheme(solarized) = true")
	}
}
