package summarizer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/video-summarizer/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
	"github.com/yanqian/video-summarizer/pkg/metrics"
)

func TestSummarizeSendsConfiguredRequest(t *testing.T) {
	client := &stubChatClient{resp: completion("# Title\n\nBody", &chatgpt.Usage{PromptTokens: 50, CompletionTokens: 20, TotalTokens: 70})}
	svc := newTestService(t, testConfig(), client)

	res, err := svc.Summarize(context.Background(), "  go routines are cheap  ")
	require.NoError(t, err)
	require.Equal(t, "# Title\n\nBody", res.Text)
	require.Equal(t, metrics.TokenUsage{PromptTokens: 50, CompletionTokens: 20, TotalTokens: 70}, res.Usage)

	require.Equal(t, 1, client.calls)
	require.Equal(t, "test-model", client.lastRequest.Model)
	require.InDelta(t, 0.3, client.lastRequest.Temperature, 0.0001)
	require.Equal(t, 256, client.lastRequest.MaxTokens)
	require.Len(t, client.lastRequest.Messages, 1)
	prompt := client.lastRequest.Messages[0].Content
	require.Contains(t, prompt, "go routines are cheap")
	require.Contains(t, prompt, "Generate a title")
	require.Contains(t, prompt, "3 to 5 ways")
}

func TestSummarizeFallsBackToEstimatedUsage(t *testing.T) {
	client := &stubChatClient{resp: completion("summary", nil)}
	svc := newTestService(t, testConfig(), client)

	res, err := svc.Summarize(context.Background(), "text")
	require.NoError(t, err)
	require.Equal(t, 42, res.Usage.PromptTokens)
	require.Equal(t, "test-model", res.Model)
}

func TestSummarizeCustomPrompt(t *testing.T) {
	cfg := testConfig()
	cfg.Prompt = "Summarize: {{.Text}}"
	client := &stubChatClient{resp: completion("ok", nil)}
	svc := newTestService(t, cfg, client)

	_, err := svc.Summarize(context.Background(), "hello world")
	require.NoError(t, err)
	require.Equal(t, "Summarize: hello world", client.lastRequest.Messages[0].Content)
}

func TestNewServiceRejectsBrokenTemplate(t *testing.T) {
	cfg := testConfig()
	cfg.Prompt = "{{.Text"
	_, err := NewService(cfg, &stubChatClient{}, stubCounter{}, newTestLogger())
	require.Error(t, err)
}

func TestSummarizeFailures(t *testing.T) {
	tests := []struct {
		name     string
		client   *stubChatClient
		text     string
		wantCode string
		wantCall int
	}{
		{name: "empty text", client: &stubChatClient{}, text: "   ", wantCode: apperrors.CodeInvalidInput},
		{name: "client error", client: &stubChatClient{err: errors.New("timeout")}, text: "x", wantCode: apperrors.CodeGenerationError, wantCall: 1},
		{name: "no choices", client: &stubChatClient{}, text: "x", wantCode: apperrors.CodeGenerationError, wantCall: 1},
		{name: "blank content", client: &stubChatClient{resp: completion("  \n", nil)}, text: "x", wantCode: apperrors.CodeGenerationError, wantCall: 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, testConfig(), tt.client)
			_, err := svc.Summarize(context.Background(), tt.text)
			require.True(t, apperrors.IsCode(err, tt.wantCode), "got %v", err)
			require.Equal(t, tt.wantCall, tt.client.calls)
		})
	}
}

func testConfig() Config {
	return Config{Model: "test-model", Temperature: 0.3, MaxTokens: 256}
}

func newTestService(t *testing.T, cfg Config, client ChatClient) Service {
	t.Helper()
	svc, err := NewService(cfg, client, stubCounter{}, newTestLogger())
	require.NoError(t, err)
	return svc
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func completion(content string, usage *chatgpt.Usage) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []chatgpt.Choice{{Message: chatgpt.Message{Role: "assistant", Content: content}, FinishReason: "stop"}},
		Usage:   usage,
	}
}

type stubCounter struct{}

func (stubCounter) Count(string, string) int { return 42 }

type stubChatClient struct {
	resp        chatgpt.ChatCompletionResponse
	err         error
	calls       int
	lastRequest chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	s.calls++
	s.lastRequest = req
	if s.err != nil {
		return chatgpt.ChatCompletionResponse{}, s.err
	}
	return s.resp, nil
}
