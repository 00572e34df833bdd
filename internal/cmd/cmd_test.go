package cmd

import "testing"

func TestRootCommandShape(t *testing.T) {
	if rootCmd.Use != "pwnflow-tui [project-id]" {
		t.Errorf("Use = %q", rootCmd.Use)
	}

	subcommands := map[string]bool{}
	for _, sub := range rootCmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, want := range []string{"version", "config"} {
		if !subcommands[want] {
			t.Errorf("missing subcommand %q", want)
		}
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"server", "token", "theme", "log-level", "username", "password"} {
		if rootCmd.Flags().Lookup(name) == nil {
			t.Errorf("missing flag --%s", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent flag --config")
	}
}

func TestConfigCommandShape(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range configCmd.Commands() {
		names[sub.Name()] = true
	}
	if !names["show"] || !names["init"] {
		t.Errorf("config subcommands = %v, want show and init", names)
	}
}
