// ABOUTME: Cobra command for interactive newsdesk configuration.
// ABOUTME: Launches a bubbletea TUI wizard to select backend, data directory, and API key.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:         "setup",
	Short:       "Configure newsdesk storage and credentials",
	Long:        "Interactive wizard to configure the storage backend, data directory, and NewsAPI key.",
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model := tui.NewSetupModel(
		tui.Values{Backend: cfg.Backend, DataDir: cfg.DataDir, APIKey: cfg.NewsAPIKey},
		tui.Options{Backends: config.Backends(), DefaultDataDir: config.DefaultDataDir()},
	)

	p := tea.NewProgram(model, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	out := cmd.OutOrStdout()
	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Fprintln(out, "Setup canceled.")
		return nil
	}

	values := final.Result()
	cfg.Backend = values.Backend
	cfg.DataDir = values.DataDir
	cfg.NewsAPIKey = values.APIKey

	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(out, "Config saved to %s\n", path)
	return nil
}
