// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config and wires the article store, news source, and service for subcommands

package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/articles"
	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/storage"
)

// skipSetup marks commands that run without a store or service.
const skipSetup = "skip-setup"

var (
	configPath  string
	backendFlag string
	verbose     bool

	cfg    *config.Config
	store  storage.Store
	svc    *articles.Service
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "Tech news desk: fetch, curate, and serve edited articles",
	Long: `
███╗   ██╗███████╗██╗    ██╗███████╗██████╗ ███████╗███████╗██╗  ██╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║  ██║█████╗  ███████╗█████╔╝
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║  ██║██╔══╝  ╚════██║██╔═██╗
██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝███████╗███████║██║  ██╗
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝ ╚══════╝╚══════╝╚═╝  ╚═╝

Fetch technology headlines, fix titles and bylines, and keep the
edited collection in the store of your choice.

Serve it over HTTP for a web UI, or over MCP for AI agents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := log.InfoLevel
		if verbose {
			level = log.DebugLevel
		}
		logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
			Level:           level,
			ReportTimestamp: true,
			Prefix:          "newsdesk",
		})

		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return setup(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			if err != nil {
				return fmt.Errorf("failed to close store: %w", err)
			}
		}
		return nil
	},
}

// setup loads config and opens the store, source, and service.
func setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	store, err = cfg.OpenStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}
	source, err := cfg.OpenSource()
	if err != nil {
		return err
	}

	svc = articles.New(store, source,
		articles.WithLogger(logger),
		articles.WithDefaultTopic(cfg.Topic),
	)
	logger.Debug("ready", "store", store.Name(), "source", source.Name())
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: $XDG_CONFIG_HOME/newsdesk/config.json)")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "article store: memory, file, sqlite, postgres, mongodb, charm (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
