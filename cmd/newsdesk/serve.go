// ABOUTME: Serve command exposing the article API over HTTP
// ABOUTME: Shuts down gracefully on SIGINT or SIGTERM

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/newsdesk/internal/config"
	"github.com/harper/newsdesk/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the article API over HTTP",
	Long: `Serve the article collection over HTTP.

Routes:
  GET    /articles            saved collection, or fetched when nothing is saved
  POST   /articles            replace the saved collection (JSON array)
  DELETE /articles            restore the original snapshot
  DELETE /articles/saved      clear the saved collection
  GET    /articles/view       filtered, sorted, paginated view (?q=&sort=&page=&page_size=)
  PATCH  /articles/{index}    edit title or author ({"field": ..., "value": ...})
  GET    /healthz             liveness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.GetListenAddress()
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(svc,
			server.WithLogger(logger),
			server.WithMaxBodyBytes(config.MaxRequestBodyBytes),
			server.WithViewPageSize(config.DefaultViewPageSize),
			server.WithShutdownTimeout(config.DefaultShutdownTimeout),
		)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "listen address (default from config, 127.0.0.1:3000)")
}
