package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jade/jadeos/internal/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API over the local workers",
	Long: `Serve /health, /docs, /intel/supply/track, /agent/strategy and /video/wash.

Logs go to stderr. Every request loads its capability fresh.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		stderr := ""
		rt, err := setup(&stderr)
		if err != nil {
			return err
		}
		defer rt.close()

		addr := rt.cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		rt.log.Info("api listening", zap.String("addr", addr))
		return api.New(rt.svc, rt.log.Named("api")).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr)")
}
