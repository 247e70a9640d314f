package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/video-summarizer/internal/domain/account"
	"github.com/yanqian/video-summarizer/internal/domain/pipeline"
	"github.com/yanqian/video-summarizer/internal/domain/summarizer"
	"github.com/yanqian/video-summarizer/internal/infra/archive"
	"github.com/yanqian/video-summarizer/internal/infra/config"
	"github.com/yanqian/video-summarizer/internal/infra/llm/chatgpt"
	"github.com/yanqian/video-summarizer/internal/infra/ratelimit"
	"github.com/yanqian/video-summarizer/internal/infra/runlog"
	"github.com/yanqian/video-summarizer/internal/infra/strapi"
	"github.com/yanqian/video-summarizer/internal/infra/userrepo"
	"github.com/yanqian/video-summarizer/internal/infra/youtube"
)

func provideSummaryConfig(cfg *config.Config) summarizer.Config {
	return summarizer.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Prompt:      cfg.Summary.Prompt,
	}
}

func provideChatGPTClient(cfg *config.Config) (*chatgpt.Client, error) {
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
}

func provideTranscriptFetcher(cfg *config.Config, logger *slog.Logger) *youtube.Fetcher {
	return youtube.NewFetcher(youtube.Options{
		BaseURL:   cfg.Transcript.BaseURL,
		Language:  cfg.Transcript.Language,
		UserAgent: cfg.Transcript.UserAgent,
		Timeout:   cfg.Transcript.Timeout,
	}, logger)
}

func provideCMSClient(cfg *config.Config, tokens account.TokenSource, logger *slog.Logger) *strapi.Client {
	return strapi.NewClient(cfg.CMS.BaseURL, cfg.CMS.Timeout, tokens, logger)
}

// provideResolver asks the CMS for the current user, or verifies CMS-issued
// JWTs locally against the users table in jwt mode.
func provideResolver(cfg *config.Config, cms *strapi.Client, logger *slog.Logger) (account.Resolver, error) {
	if cfg.Auth.Mode == config.AuthModeJWT {
		repo, err := provideAccountRepository(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("account resolver: local jwt verification")
		return account.NewJWTResolver(cfg.Auth.Secret, repo, logger), nil
	}
	logger.Info("account resolver: cms users/me", "cms", cfg.CMS.BaseURL)
	return cms, nil
}

// provideAccountRepository opens the users table. A jwt deployment without a
// reachable database has no way to read balances, so startup fails.
func provideAccountRepository(cfg *config.Config) (account.Repository, error) {
	pool, err := openPostgresPool(cfg.Auth.Postgres)
	if err != nil {
		return nil, fmt.Errorf("account postgres: %w", err)
	}
	if pool == nil {
		return nil, errors.New("account postgres: auth.postgres.dsn is not set")
	}
	return userrepo.NewPostgresRepository(pool), nil
}

func provideRunRecorder(cfg *config.Config, logger *slog.Logger) pipeline.RunRecorder {
	pool, err := openPostgresPool(cfg.RunLog.Postgres)
	if err != nil {
		logger.Error("run log postgres unavailable, using memory recorder", "error", err)
		return runlog.NewMemoryRecorder(0)
	}
	if pool == nil {
		logger.Info("run log postgres dsn not set, using memory recorder")
		return runlog.NewMemoryRecorder(0)
	}
	logger.Info("run log postgres recorder enabled")
	return runlog.NewPostgresRecorder(pool)
}

func provideTranscriptArchive(cfg *config.Config, logger *slog.Logger) pipeline.TranscriptArchive {
	if !cfg.Archive.Enabled {
		return archive.Noop{}
	}
	store, err := archive.NewS3Archive(cfg.Archive.Endpoint, cfg.Archive.AccessKey, cfg.Archive.SecretKey, cfg.Archive.Bucket, cfg.Archive.Region, logger)
	if err != nil {
		logger.Error("failed to init transcript archive, archiving disabled", "error", err)
		return archive.Noop{}
	}
	logger.Info("transcript archive enabled", "bucket", cfg.Archive.Bucket)
	return store
}

func provideRateLimitStore(cfg *config.Config, logger *slog.Logger) ratelimit.Store {
	limits := cfg.HTTP.RateLimit
	fallback := ratelimit.NewMemoryStore(limits.RequestsPerMinute, limits.Burst)
	if !cfg.Redis.Enabled {
		return fallback
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory limiter", "error", err)
		return fallback
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory limiter", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory limiter", "error", err)
		client.Close()
		return fallback
	}
	logger.Info("valkey rate limiter enabled", "addr", cfg.Redis.Addr)
	return ratelimit.NewValkeyStore(client, "ratelimit", limits.RequestsPerMinute, limits.Burst)
}

// openPostgresPool returns a nil pool when no DSN is configured.
func openPostgresPool(pg config.PostgresConfig) (*pgxpool.Pool, error) {
	dsn := strings.TrimSpace(pg.DSN)
	if dsn == "" {
		return nil, nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if pg.MaxConns > 0 {
		poolConfig.MaxConns = pg.MaxConns
	}
	if pg.MinConns > 0 {
		poolConfig.MinConns = pg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("init postgres pool: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return pool, nil
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Redis.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Redis.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Redis.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
