package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iksnae/tourmate/internal"
	"github.com/iksnae/tourmate/internal/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the TourMate HTTP API.

Routes:
  POST   /api/chat                      {"message", "history", "sessionId"}
  GET    /api/health
  GET    /api/cache/stats
  POST   /api/cache/clear               {"pattern"}
  GET    /api/session/:id/analytics
  GET    /api/session/:id/history?limit=20
  GET    /api/session/:id/export?format=json|jsonl|yaml|md
  DELETE /api/session/:id

The listen address comes from --addr, server.addr, TOURMATE_SERVER_ADDR or PORT.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		svc, cfg, err := buildService(cmd)
		if err != nil {
			return err
		}
		svc.Start(ctx)
		defer func() { _ = svc.Shutdown() }()

		listener, err := net.Listen("tcp", cfg.Server.Addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
		}
		return serve(ctx, listener, server.New(svc).Handler())
	},
}

// serve runs handler on listener until ctx is cancelled, then drains
func serve(ctx context.Context, listener net.Listener, handler http.Handler) error {
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		internal.PrintInfo(fmt.Sprintf("TourMate API listening on %s", listener.Addr()))
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	internal.LogInfo("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :5000)")
	addCollaboratorFlags(serveCmd)
}
