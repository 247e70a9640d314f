package bootstrap

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/video-summarizer/internal/infra/config"
)

func TestApp_RunServesAndDrains(t *testing.T) {
	logs := &lockedBuffer{}
	cfg := testConfig("127.0.0.1:0")
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}
	app := NewApp(cfg, slog.New(slog.NewJSONHandler(logs, nil)), server)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	var started map[string]any
	require.Eventually(t, func() bool {
		started = logs.find("video summarizer starting")
		return started != nil
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, "jwt", started["auth_mode"])
	require.Equal(t, "gpt-4", started["llm_model"])
	require.Equal(t, "https://cms.example.com", started["cms"])
	require.Equal(t, "postgres", started["run_log"])
	require.Equal(t, "memory", started["rate_limit"])
	require.Equal(t, false, started["archive"])
	require.NotContains(t, logs.String(), "s3cret")
	require.NotContains(t, logs.String(), "hunter2")

	resp, err := http.Get("http://" + started["address"].(string) + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after cancel")
	}
	require.NotNil(t, logs.find("video summarizer stopped"))
}

func TestApp_RunReportsBindFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()

	app := NewApp(testConfig(taken.Addr().String()), slog.New(slog.NewTextHandler(io.Discard, nil)), &http.Server{})
	err = app.Run(context.Background())
	require.ErrorContains(t, err, "listen on "+taken.Addr().String())
}

func TestStartupAttrs_RateLimitModes(t *testing.T) {
	cfg := testConfig(":8080")
	cfg.HTTP.RateLimit.Enabled = false
	require.Equal(t, "off", rateLimitMode(cfg))

	cfg.HTTP.RateLimit.Enabled = true
	cfg.Redis.Enabled = true
	require.Equal(t, "valkey", rateLimitMode(cfg))
}

func testConfig(addr string) *config.Config {
	return &config.Config{
		HTTP: config.HTTPConfig{
			Address:         addr,
			ShutdownTimeout: time.Second,
			RateLimit:       config.RateLimitConfig{Enabled: true, RequestsPerMinute: 30, Burst: 10},
		},
		LLM:        config.LLMConfig{Model: "gpt-4"},
		CMS:        config.CMSConfig{BaseURL: "https://cms.example.com"},
		Transcript: config.TranscriptConfig{Language: "en"},
		Auth: config.AuthConfig{
			Mode:     config.AuthModeJWT,
			Secret:   "s3cret",
			Postgres: config.PostgresConfig{DSN: "postgres://cms:hunter2@db:5432/cms"},
		},
		RunLog: config.RunLogConfig{
			Postgres: config.PostgresConfig{DSN: "postgres://runs:hunter2@db:5432/runs"},
		},
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// find returns the first JSON log line with the given message.
func (b *lockedBuffer) find(msg string) map[string]any {
	scanner := bufio.NewScanner(bytes.NewBufferString(b.String()))
	for scanner.Scan() {
		var line map[string]any
		if json.Unmarshal(scanner.Bytes(), &line) == nil && line["msg"] == msg {
			return line
		}
	}
	return nil
}
