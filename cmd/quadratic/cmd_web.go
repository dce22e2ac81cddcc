package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richard-senior/quadratic/pkg/server"
	"github.com/richard-senior/quadratic/pkg/web"
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the web front end and POST /mcp over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// requests arrive over HTTP only, so the server needs no transport
		srv := server.NewServer(nil, cfg)
		return web.NewHandler(srv, cfg).Serve(ctx)
	},
}
