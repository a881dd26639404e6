package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/themobileprof/fitzone-bot/internal/api"
	"github.com/themobileprof/fitzone-bot/internal/api/middleware"
	"github.com/themobileprof/fitzone-bot/internal/config"
	"github.com/themobileprof/fitzone-bot/internal/ws"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *rootOptions) error {
	cfg, log, err := opts.setup()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newHandler(ctx, cfg, a, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("gym", a.data.Name()),
			zap.Bool("fallback", a.engine.FallbackAvailable()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

// newHandler assembles the router. The rate limiter's sweeper stops with ctx.
func newHandler(ctx context.Context, cfg *config.Config, a *app, log *zap.Logger) http.Handler {
	gin.SetMode(cfg.Server.Mode)

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimitRPS > 0 {
		limiter = middleware.NewRateLimiter(ctx, rate.Limit(cfg.Server.RateLimitRPS), cfg.Server.RateLimitBurst)
	}

	wsHandler := ws.NewChatHandler(a.engine, cfg.Fallback.Timeout, cfg.Server.AllowedOrigins, log)

	return api.NewRouter(api.RouterConfig{
		Chat:           api.NewChatHandler(a.engine, cfg.Fallback.Timeout, log),
		WebSocket:      wsHandler.HandleChat,
		Limiter:        limiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log,
		Status:         a.engine.FallbackStatus,
	})
}
