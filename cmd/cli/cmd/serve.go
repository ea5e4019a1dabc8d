// Package cmd - serve command
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cloud-quote/adapters/profile"
	"cloud-quote/adapters/storage"
	"cloud-quote/api"
	"cloud-quote/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup and quote API over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		if serveAddr != "" {
			cfg.Server.Addr = serveAddr
		}
		return Serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address, overrides the configured one")
	rootCmd.AddCommand(serveCmd)
}

// Serve runs the HTTP API until interrupted
func Serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, closeFn, err := newEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	history, err := storage.New(storage.Backend(cfg.History.Backend), cfg.History.Path)
	if err != nil {
		return err
	}
	defer history.Close()

	server := api.NewServer(eng, profile.NewStore(), api.Options{
		Version:      Version,
		Mode:         cfg.Server.Mode,
		CurrencyRate: cfg.Engine.CurrencyRate,
		History:      history,
	})
	return server.ListenAndServe(ctx, cfg.Server.Addr)
}
