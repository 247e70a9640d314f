package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/yanqian/video-summarizer/internal/infra/llm/chatgpt"
	apperrors "github.com/yanqian/video-summarizer/pkg/errors"
	"github.com/yanqian/video-summarizer/pkg/metrics"
)

// Service turns normalized transcript text into a structured written summary.
type Service interface {
	Summarize(ctx context.Context, text string) (Result, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// TokenCounter estimates how many tokens a model will bill for text.
type TokenCounter interface {
	Count(model, text string) int
}

type service struct {
	cfg     Config
	tmpl    *template.Template
	client  ChatClient
	counter TokenCounter
	logger  *slog.Logger
}

// NewService is a wire provider for the summary generator.
func NewService(cfg Config, client ChatClient, counter TokenCounter, logger *slog.Logger) (Service, error) {
	prompt := cfg.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	tmpl, err := template.New("summary").Option("missingkey=error").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("parse summary prompt: %w", err)
	}
	return &service{
		cfg:     cfg,
		tmpl:    tmpl,
		client:  client,
		counter: counter,
		logger:  logger.With("component", "summarizer.service"),
	}, nil
}

// Summarize makes exactly one billable completion call. It is not retried.
func (s *service) Summarize(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, apperrors.Wrap(apperrors.CodeInvalidInput, "transcript text cannot be empty", nil)
	}

	prompt, err := s.render(text)
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeGenerationError, "failed to build prompt", err)
	}
	estimated := metrics.TokenUsage{PromptTokens: s.counter.Count(s.cfg.Model, prompt)}
	s.logger.Debug("requesting summary", "model", s.cfg.Model, "prompt_tokens_estimate", estimated.PromptTokens)

	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []chatgpt.Message{{Role: "user", Content: prompt}},
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return Result{}, apperrors.Wrap(apperrors.CodeGenerationError, "Summary generation failed", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, apperrors.Wrap(apperrors.CodeGenerationError, "Summary generation returned no choices", nil)
	}

	choice := resp.Choices[0]
	content := strings.TrimSpace(choice.Message.Content)
	if content == "" {
		return Result{}, apperrors.Wrap(apperrors.CodeGenerationError, "Summary generation returned empty content", nil)
	}
	if choice.FinishReason == "length" {
		s.logger.Warn("summary truncated by max tokens", "max_tokens", s.cfg.MaxTokens)
	}

	usage := estimated
	if resp.Usage != nil {
		usage = metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}.Merge(estimated)
	}
	model := resp.Model
	if model == "" {
		model = s.cfg.Model
	}
	s.logger.Info("summary generated", "model", model, "prompt_tokens", usage.PromptTokens, "completion_tokens", usage.CompletionTokens)

	return Result{Text: content, Model: model, Usage: usage}, nil
}

func (s *service) render(text string) (string, error) {
	var builder strings.Builder
	if err := s.tmpl.Execute(&builder, struct{ Text string }{Text: text}); err != nil {
		return "", err
	}
	return builder.String(), nil
}
