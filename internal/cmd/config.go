package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pwnflow/pwnflow-tui/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or initialize configuration",
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a config file at ~/.config/pwnflow/config.yaml with every available option and its default.`,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token := "(not set)"
	if cfg.API.Token != "" {
		token = "(set)"
	}

	fmt.Printf("config file: %s\n\n", config.ConfigFile())
	fmt.Printf("api.base_url           %s\n", cfg.API.BaseURL)
	fmt.Printf("api.timeout_seconds    %d\n", cfg.API.TimeoutSeconds)
	fmt.Printf("api.token              %s\n", token)
	fmt.Printf("api.project            %s\n", cfg.API.Project)
	fmt.Printf("tui.sidebar_width      %d\n", cfg.TUI.SidebarWidth)
	fmt.Printf("tui.theme              %s\n", cfg.TUI.Theme)
	fmt.Printf("tui.show_edit_indicator %t\n", cfg.TUI.ShowEditIndicator)
	fmt.Printf("editing.commit_on_blur %t\n", cfg.Editing.CommitOnBlur)
	fmt.Printf("logging.enabled        %t\n", cfg.Logging.Enabled)
	fmt.Printf("logging.level          %s\n", cfg.Logging.Level)
	fmt.Printf("logging.dir            %s\n", cfg.Logging.ResolveLogDir())
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.ConfigFile()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	defaults := config.Default()
	content := fmt.Sprintf(`# pwnflow-tui configuration
api:
  base_url: %s
  timeout_seconds: %d
  # token: set via PWNFLOW_API_TOKEN or here
  # project: default project ID to open

tui:
  sidebar_width: %d
  theme: %s
  show_edit_indicator: %t

editing:
  commit_on_blur: %t

logging:
  enabled: %t
  level: %s
  max_size_mb: %d
  max_backups: %d
`,
		defaults.API.BaseURL,
		defaults.API.TimeoutSeconds,
		defaults.TUI.SidebarWidth,
		defaults.TUI.Theme,
		defaults.TUI.ShowEditIndicator,
		defaults.Editing.CommitOnBlur,
		defaults.Logging.Enabled,
		defaults.Logging.Level,
		defaults.Logging.MaxSizeMB,
		defaults.Logging.MaxBackups,
	)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("created %s\n", path)
	return nil
}
