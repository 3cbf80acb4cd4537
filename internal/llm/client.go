package llm

import (
	"context"
	"time"
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest is a single-turn prompt sent to a provider.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Config holds provider and adapter settings.
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	BaseURL   string // overrides the provider endpoint, mostly for tests
	Timeout   time.Duration
	CacheTTL  time.Duration
	RateLimit int // requests per minute; zero disables limiting
}
