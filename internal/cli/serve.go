package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/soniaklein/HRF-Dashboard/internal/alerts"
	"github.com/soniaklein/HRF-Dashboard/internal/api"
	"github.com/soniaklein/HRF-Dashboard/internal/config"
	"github.com/soniaklein/HRF-Dashboard/internal/metrics"
	"github.com/soniaklein/HRF-Dashboard/internal/session"
	"github.com/soniaklein/HRF-Dashboard/internal/storage"
	"github.com/soniaklein/HRF-Dashboard/internal/templates"
	"github.com/soniaklein/HRF-Dashboard/internal/ws"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard backend (REST API, WebSocket hub, /metrics)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cfg)
	},
}

func serve(cfg *config.Config) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("hrf server starting",
		"http_port", cfg.Server.HTTPPort,
		"templates_path", cfg.Templates.Path,
		"session_ttl", cfg.Session.TTL,
		"auth_mode", cfg.Server.Auth.Mode,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Session registry with background TTL eviction.
	sessions := session.NewManager(cfg.Session.TTL, cfg.Thresholds)
	go sessions.Run(ctx)
	metrics.RegisterSessionGauge(sessions.Count)

	// Template store, hot-reloaded when the file changes on disk.
	store, err := templates.NewStore(cfg.Templates.Path)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	go func() {
		if err := store.Watch(ctx); err != nil {
			slog.Error("templates: watch failed", "err", err)
		}
	}()

	// Alerts engine — evaluates rules on every applied intervention.
	alertEngine := alerts.New(cfg.Alerts)

	// Config hot reload updates alert rules in place.
	go func() {
		err := config.Watch(ctx, cfgPath, func(next *config.Config) {
			alertEngine.SetRules(next.Alerts)
		})
		if err != nil {
			slog.Warn("config: watch unavailable", "err", err)
		}
	}()

	// Optional write-behind audit log.
	var audit *storage.Store
	if cfg.Storage.Enabled() {
		audit, err = storage.Open(cfg.Storage.Path, cfg.Storage.Retention)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer audit.Close()
		go audit.Run(ctx)
		slog.Info("storage: audit log enabled", "path", cfg.Storage.Path)
	}

	handler := api.New(sessions, store, alertEngine, audit)

	// WebSocket hub — broadcasts the default session's evaluation.
	hub := ws.New(handler, cfg.Server.BroadcastInterval)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle("/api/", api.WithAuth(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
		handler,
	))
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}

	go func() {
		slog.Info("http server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
