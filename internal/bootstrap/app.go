package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/yanqian/video-summarizer/internal/infra/config"
)

// App owns the summarizer's HTTP server from listen to graceful drain.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server}
}

// Run binds the listener, serves until ctx is cancelled and then lets
// in-flight summaries finish within the configured shutdown timeout.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.cfg.HTTP.Address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.cfg.HTTP.Address, err)
	}
	a.logger.Info("video summarizer starting", append([]any{"address", ln.Addr().String()}, startupAttrs(a.cfg)...)...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.server.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received, draining", "timeout", a.cfg.HTTP.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("drain in-flight requests: %w", err)
		}
		a.logger.Info("video summarizer stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startupAttrs describes which collaborators this process talks to. Secrets
// and DSNs are never logged.
func startupAttrs(cfg *config.Config) []any {
	return []any{
		"auth_mode", cfg.Auth.Mode,
		"cms", cfg.CMS.BaseURL,
		"llm_model", cfg.LLM.Model,
		"transcript_language", cfg.Transcript.Language,
		"run_log", backendName(strings.TrimSpace(cfg.RunLog.Postgres.DSN) != "", "postgres", "memory"),
		"rate_limit", rateLimitMode(cfg),
		"archive", cfg.Archive.Enabled,
	}
}

func rateLimitMode(cfg *config.Config) string {
	if !cfg.HTTP.RateLimit.Enabled {
		return "off"
	}
	return backendName(cfg.Redis.Enabled, "valkey", "memory")
}

func backendName(remote bool, remoteName, localName string) string {
	if remote {
		return remoteName
	}
	return localName
}
