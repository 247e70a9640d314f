package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	LLM        LLMConfig        `yaml:"llm"`
	Summary    SummaryConfig    `yaml:"summary"`
	Transcript TranscriptConfig `yaml:"transcript"`
	CMS        CMSConfig        `yaml:"cms"`
	Auth       AuthConfig       `yaml:"auth"`
	RunLog     RunLogConfig     `yaml:"runLog"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Redis      RedisConfig      `yaml:"redis"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	// ShutdownTimeout bounds how long in-flight summaries may finish after a signal.
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	AllowOrigins    []string        `yaml:"allowOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"maxTokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SummaryConfig holds the instruction template rendered for every video.
type SummaryConfig struct {
	Prompt string `yaml:"prompt"`
}

// TranscriptConfig controls the YouTube caption fetcher.
type TranscriptConfig struct {
	BaseURL   string        `yaml:"baseUrl"`
	Language  string        `yaml:"language"`
	UserAgent string        `yaml:"userAgent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// CMSConfig points at the Strapi backend that stores summaries.
type CMSConfig struct {
	BaseURL string        `yaml:"baseUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

// AuthConfig selects how the current user and their credits are resolved.
type AuthConfig struct {
	// Mode is "cms" (ask the CMS for users/me) or "jwt" (verify locally and read credits from Postgres).
	Mode     string         `yaml:"mode"`
	Secret   string         `yaml:"secret"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// RunLogConfig controls where pipeline runs are recorded.
type RunLogConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// ArchiveConfig enables raw transcript archiving to S3 compatible storage.
type ArchiveConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// RedisConfig contains connection information for the shared rate limiter.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

const (
	AuthModeCMS = "cms"
	AuthModeJWT = "jwt"
)

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_SHUTDOWN_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ShutdownTimeout = parsed
		}
	}
	if v := os.Getenv("HTTP_ALLOW_ORIGINS"); v != "" {
		cfg.HTTP.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}

	// OPENAI_* names are accepted as aliases.
	if v := firstEnv("OPENAI_API_KEY", "LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := firstEnv("MODEL_NAME", "OPENAI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := firstEnv("TEMPERATURE", "OPENAI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := firstEnv("MAX_TOKENS", "OPENAI_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Timeout = parsed
		}
	}

	if v := os.Getenv("SUMMARY_PROMPT"); v != "" {
		cfg.Summary.Prompt = v
	}

	if v := os.Getenv("TRANSCRIPT_BASE_URL"); v != "" {
		cfg.Transcript.BaseURL = v
	}
	if v := os.Getenv("TRANSCRIPT_LANGUAGE"); v != "" {
		cfg.Transcript.Language = v
	}
	if v := os.Getenv("TRANSCRIPT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Transcript.Timeout = parsed
		}
	}

	if v := firstEnv("CMS_BASE_URL", "STRAPI_URL"); v != "" {
		cfg.CMS.BaseURL = v
	}
	if v := os.Getenv("CMS_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.CMS.Timeout = parsed
		}
	}

	if v := os.Getenv("AUTH_MODE"); v != "" {
		cfg.Auth.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_POSTGRES_DSN"); v != "" {
		cfg.Auth.Postgres.DSN = v
	}
	if v := os.Getenv("RUNLOG_POSTGRES_DSN"); v != "" {
		cfg.RunLog.Postgres.DSN = v
	}

	if v := os.Getenv("ARCHIVE_ENABLED"); v != "" {
		cfg.Archive.Enabled = parseBool(v)
	}
	if v := os.Getenv("ARCHIVE_ENDPOINT"); v != "" {
		cfg.Archive.Endpoint = v
	}
	if v := os.Getenv("ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Archive.AccessKey = v
	}
	if v := os.Getenv("ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Archive.SecretKey = v
	}
	if v := os.Getenv("ARCHIVE_BUCKET"); v != "" {
		cfg.Archive.Bucket = v
	}
	if v := os.Getenv("ARCHIVE_REGION"); v != "" {
		cfg.Archive.Region = v
	}

	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = parseBool(v)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address: ":8080",
			// generation alone can take well over a minute for long videos
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    5 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 30,
				Burst:             10,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4",
			Temperature: 0.7,
			MaxTokens:   4000,
			Timeout:     3 * time.Minute,
		},
		Transcript: TranscriptConfig{
			BaseURL:   "https://www.youtube.com",
			Language:  "en",
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			Timeout:   15 * time.Second,
		},
		CMS: CMSConfig{
			BaseURL: "http://localhost:1337",
			Timeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeCMS,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		RunLog: RunLogConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Archive: ArchiveConfig{
			Bucket: "transcripts",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http.shutdownTimeout must be positive")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens <= 0 {
		return errors.New("llm.maxTokens must be positive")
	}
	if c.Summary.Prompt != "" && !strings.Contains(c.Summary.Prompt, "{{.Text}}") {
		return errors.New("summary.prompt must contain the {{.Text}} placeholder")
	}
	if strings.TrimSpace(c.Transcript.BaseURL) == "" {
		return errors.New("transcript.baseUrl cannot be empty")
	}
	if strings.TrimSpace(c.CMS.BaseURL) == "" {
		return errors.New("cms.baseUrl cannot be empty")
	}
	switch c.Auth.Mode {
	case AuthModeCMS:
	case AuthModeJWT:
		if strings.TrimSpace(c.Auth.Secret) == "" {
			return errors.New("auth.secret cannot be empty in jwt mode")
		}
		if strings.TrimSpace(c.Auth.Postgres.DSN) == "" {
			return errors.New("auth.postgres.dsn cannot be empty in jwt mode")
		}
	default:
		return fmt.Errorf("auth.mode %q is not supported", c.Auth.Mode)
	}
	if c.Archive.Enabled {
		if strings.TrimSpace(c.Archive.Endpoint) == "" {
			return errors.New("archive.endpoint cannot be empty when archive is enabled")
		}
		if strings.TrimSpace(c.Archive.Bucket) == "" {
			return errors.New("archive.bucket cannot be empty when archive is enabled")
		}
	}
	if c.Redis.Enabled && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("redis.addr cannot be empty when redis is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
