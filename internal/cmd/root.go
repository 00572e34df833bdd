// Package cmd defines the command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pwnflow/pwnflow-tui/internal/config"
	"github.com/pwnflow/pwnflow-tui/internal/logging"
	"github.com/pwnflow/pwnflow-tui/internal/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pwnflow-tui [project-id]",
	Short: "Terminal client for Pwnflow attack trees",
	Long: `pwnflow-tui is a terminal client for the Pwnflow pentest collaboration
backend. It shows a project's attack tree and lets you edit node titles
and markdown descriptions without leaving the terminal, with unsaved
edits held locally until you commit them.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ~/.config/pwnflow/config.yaml)")

	rootCmd.Flags().String("server", "", "backend base URL")
	rootCmd.Flags().String("token", "", "API bearer token")
	rootCmd.Flags().String("theme", "", "color theme (default, dark, light)")
	rootCmd.Flags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().String("username", "", "username to log in with")
	rootCmd.Flags().String("password", "", "password to log in with")

	_ = viper.BindPFlag("api.base_url", rootCmd.Flags().Lookup("server"))
	_ = viper.BindPFlag("api.token", rootCmd.Flags().Lookup("token"))
	_ = viper.BindPFlag("tui.theme", rootCmd.Flags().Lookup("theme"))
	_ = viper.BindPFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		config.SetDefaults()
		viper.SetConfigFile(cfgFile)
		_ = viper.ReadInConfig()
		return
	}
	_ = config.Init()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(args) > 0 {
		cfg.API.Project = args[0]
	}

	logger, cleanup, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	app, err := tui.NewApp(cfg, logger)
	if err != nil {
		return err
	}

	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	if username != "" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout())
		err := app.Login(ctx, username, password)
		cancel()
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	// Pick up safe config edits while the TUI runs; anything structural
	// needs a restart.
	config.Watch(func(next *config.Config) {
		logger.Info("configuration reloaded", "file", config.ConfigFile())
	})

	return app.Run()
}

// buildLogger creates the file logger, or a no-op one when logging is
// disabled.
func buildLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	if !cfg.Logging.Enabled {
		return logging.NopLogger(), func() {}, nil
	}

	logger, err := logging.NewLogger(cfg.Logging.ResolveLogDir(), cfg.Logging.Level, logging.RotationConfig{
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return logger, func() { logger.Close() }, nil
}
