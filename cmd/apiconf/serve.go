package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rpattn/apiconf/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve completed entity configuration over HTTP",
	Long: `Starts the HTTP server:

  GET /healthz
  GET /api/entities
  GET /api/entities/{class}/config
  GET /api/entities/{class}/config.xlsx
  GET /api/export.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withApp(ctx, func(a *app) error {
			router := httpapi.NewRouter(httpapi.Options{
				Builder:        a.builder,
				Classes:        a.source,
				Metadata:       a.metadata,
				BatchWait:      cfg.Metadata.BatchWait,
				AllowedOrigins: cfg.HTTP.AllowedOrigins,
				Logger:         logger,
			})
			return httpapi.Serve(ctx, httpapi.ServerConfig{
				Addr:            cfg.HTTP.Addr,
				ReadTimeout:     cfg.HTTP.ReadTimeout,
				WriteTimeout:    cfg.HTTP.WriteTimeout,
				IdleTimeout:     cfg.HTTP.IdleTimeout,
				ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
			}, router, logger)
		})
	},
}
