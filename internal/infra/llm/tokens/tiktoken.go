package tokens

import (
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const fallbackEncoding = "cl100k_base"

// Counter estimates prompt tokens with tiktoken, caching one encoder per model.
// When no encoder can be loaded it falls back to a length based estimate.
type Counter struct {
	mu       sync.Mutex
	encoders map[string]*tiktoken.Tiktoken
	failed   map[string]bool
	logger   *slog.Logger
}

// NewCounter constructs a Counter.
func NewCounter(logger *slog.Logger) *Counter {
	return &Counter{
		encoders: make(map[string]*tiktoken.Tiktoken),
		failed:   make(map[string]bool),
		logger:   logger.With("component", "llm.tokens"),
	}
}

// Count returns the number of tokens text encodes to for model.
func (c *Counter) Count(model, text string) int {
	if text == "" {
		return 0
	}
	enc := c.encoder(model)
	if enc == nil {
		return Estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) encoder(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()
	if enc, ok := c.encoders[model]; ok {
		return enc
	}
	if c.failed[model] {
		return nil
	}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
	}
	if err != nil {
		c.logger.Warn("tiktoken encoder unavailable, using estimate", "model", model, "error", err)
		c.failed[model] = true
		return nil
	}
	c.encoders[model] = enc
	return enc
}

// Estimate approximates token count at four bytes per token.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + 3) / 4
}
