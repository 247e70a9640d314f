package metrics

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// Merge fills zero fields from fallback, used when the API omits usage.
func (u TokenUsage) Merge(fallback TokenUsage) TokenUsage {
	if u.PromptTokens == 0 {
		u.PromptTokens = fallback.PromptTokens
	}
	if u.CompletionTokens == 0 {
		u.CompletionTokens = fallback.CompletionTokens
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return u
}
