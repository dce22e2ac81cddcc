package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/richard-senior/quadratic/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may run after ctx ends
const shutdownTimeout = 5 * time.Second

// NewHTTPServer builds an http.Server for h using the configured address
// and timeouts
func (h *Handler) NewHTTPServer() *http.Server {
	return &http.Server{
		Addr:         h.cfg.HTTP.Addr,
		Handler:      h.Handler(),
		ReadTimeout:  h.cfg.HTTP.ReadTimeout,
		WriteTimeout: h.cfg.HTTP.WriteTimeout,
	}
}

// Serve listens until ctx is done and then shuts down gracefully
func (h *Handler) Serve(ctx context.Context) error {
	srv := h.NewHTTPServer()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on", srv.Addr)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
