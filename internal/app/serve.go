package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ganot/rbm-dashboard/internal/config"
)

const shutdownTimeout = 5 * time.Second

// ListenAndServe serves the HTTP API until ctx is cancelled, then shuts
// down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	addr := net.JoinHostPort(a.Config.Server.Host, fmt.Sprint(a.Config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	a.Logger.Info("shutting down")
	// Hijacked websocket connections are not tracked by Shutdown.
	a.Hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// ServeStdio runs the MCP server on stdin/stdout until ctx is cancelled or
// stdin closes.
func (a *App) ServeStdio(ctx context.Context) error {
	if a.MCP == nil {
		return errors.New("mcp is disabled in config")
	}
	a.Logger.Info("starting stdio transport")
	return a.MCP.Run(ctx, &sdkmcp.StdioTransport{})
}

// Run serves in the configured transport mode until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.Config.Transport.Mode == config.TransportStdio {
		return a.ServeStdio(ctx)
	}
	return a.ListenAndServe(ctx)
}
