// Package llm talks to text-generation backends. It exposes one small
// Client interface so generators never know which provider is behind
// it, with implementations for OpenAI-compatible chat APIs and Ollama.
package llm

import (
	"context"
	"log/slog"
	"time"
)

// Request is one generation call.
type Request struct {
	Prompt       string
	SystemPrompt string
	// Temperature < 0 means the client default.
	Temperature float64
	// MaxTokens <= 0 means the client default.
	MaxTokens int
}

// Client generates text. Implementations must be safe for concurrent
// use.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}

// Config configures a provider-backed client.
type Config struct {
	// Provider is "openai" (any OpenAI-compatible endpoint) or
	// "ollama".
	Provider string
	// BaseURL overrides the provider endpoint. Required for ollama,
	// optional for openai.
	BaseURL string
	APIKey  string
	Model   string

	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration

	Logger *slog.Logger
}

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
	defaultTimeout     = 60 * time.Second
	defaultMaxRetries  = 3
	defaultRetryDelay  = time.Second
)

func (c *Config) applyDefaults() {
	if c.Temperature == 0 {
		c.Temperature = defaultTemperature
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = defaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultRetryDelay
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
