package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/richard-senior/quadratic/internal/logger"
	"github.com/richard-senior/quadratic/pkg/server"
	"github.com/richard-senior/quadratic/pkg/transport"
	"github.com/richard-senior/quadratic/pkg/web"
)

var serveHTTP bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout. All logging goes to stderr or the
configured log file so that stdout carries only JSON-RPC responses.

With --http the web front end and the POST /mcp endpoint run alongside it.
The process exits when stdin is closed or on SIGINT/SIGTERM.`,
	Annotations: map[string]string{annotationStdio: ""},
	Args:        cobra.NoArgs,
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveHTTP, "http", false, "also serve the web front end on http.addr")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv := server.NewServer(transport.NewStdioTransport(), cfg)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// a closed stdin means the client has gone
		defer cancel()
		return srv.Start(gctx)
	})
	if serveHTTP {
		h := web.NewHandler(srv, cfg)
		g.Go(func() error {
			return h.Serve(gctx)
		})
	}

	logger.Info("Serving", cfg.Server.Name, cfg.Server.Version)
	return g.Wait()
}
