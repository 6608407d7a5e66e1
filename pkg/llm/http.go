package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// httpClient is the shared transport for both providers. Retries live
// here so provider code only classifies errors.
type httpClient struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger

	// doOnce performs a single attempt.
	doOnce func(ctx context.Context, req Request) (string, error)
}

// New creates a Client for cfg.
func New(cfg Config) (Client, error) {
	cfg.applyDefaults()
	c := &httpClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger,
	}
	switch cfg.Provider {
	case "", "openai":
		if cfg.APIKey == "" {
			return nil, newErr(KindAuth, "API key not configured", nil)
		}
		if c.cfg.BaseURL == "" {
			c.cfg.BaseURL = "https://api.openai.com/v1"
		}
		if c.cfg.Model == "" {
			c.cfg.Model = "gpt-4o-mini"
		}
		c.doOnce = c.openAIOnce
	case "ollama":
		if c.cfg.BaseURL == "" {
			c.cfg.BaseURL = "http://localhost:11434"
		}
		if c.cfg.Model == "" {
			c.cfg.Model = "llama3"
		}
		c.doOnce = c.ollamaOnce
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
	c.cfg.BaseURL = strings.TrimRight(c.cfg.BaseURL, "/")
	c.logger.Info("llm client initialized",
		"provider", cfg.Provider, "model", c.cfg.Model)
	return c, nil
}

func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// Generate runs a request with bounded exponential backoff. Transient
// failures (connection, timeout, rate limit) retry up to MaxRetries
// attempts; everything else fails immediately.
func (c *httpClient) Generate(ctx context.Context, req Request) (string, error) {
	if req.Temperature <= 0 {
		req.Temperature = c.cfg.Temperature
	}
	if req.MaxTokens <= 0 {
		req.MaxTokens = c.cfg.MaxTokens
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		out, err := c.doOnce(ctx, req)
		if err == nil {
			c.logger.Debug("llm generation succeeded",
				"attempt", attempt+1, "output_length", len(out))
			return out, nil
		}
		lastErr = err

		var lerr *Error
		if !errors.As(err, &lerr) || !lerr.Retryable() {
			return "", err
		}
		if attempt == c.cfg.MaxRetries-1 {
			break
		}
		wait := c.cfg.RetryDelay * time.Duration(1<<attempt)
		c.logger.Warn("llm generation retrying",
			"attempt", attempt+1, "wait", wait, "error", err)
		select {
		case <-ctx.Done():
			return "", newErr(KindTimeout, "context canceled during retry wait", ctx.Err())
		case <-time.After(wait):
		}
	}
	return "", lastErr
}

func (c *httpClient) post(ctx context.Context, url string, payload any, headers map[string]string) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, newErr(KindInvalidResponse, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, newErr(KindConnection, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, newErr(KindTimeout, "request timed out", err)
		}
		return nil, newErr(KindConnection, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, newErr(KindConnection, "read response", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return raw, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newErr(KindRateLimit, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, newErr(KindAuth, "authentication failed", nil)
	case resp.StatusCode >= 500:
		return nil, newErr(KindConnection, fmt.Sprintf("server error %d", resp.StatusCode), nil)
	default:
		return nil, newErr(KindInvalidResponse, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *httpClient) openAIOnce(ctx context.Context, req Request) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	raw, err := c.post(ctx, c.cfg.BaseURL+"/chat/completions", chatRequest{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, map[string]string{"Authorization": "Bearer " + c.cfg.APIKey})
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", newErr(KindInvalidResponse, "decode response", err)
	}
	if len(parsed.Choices) == 0 {
		return "", newErr(KindInvalidResponse, "no choices in response", nil)
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", newErr(KindInvalidResponse, "empty content in response", nil)
	}
	return content, nil
}

type ollamaRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system,omitempty"`
	Stream  bool   `json:"stream"`
	Options struct {
		Temperature float64 `json:"temperature"`
		NumPredict  int     `json:"num_predict"`
	} `json:"options"`
}

type ollamaResponse struct {
	Response *string `json:"response"`
}

func (c *httpClient) ollamaOnce(ctx context.Context, req Request) (string, error) {
	payload := ollamaRequest{
		Model:  c.cfg.Model,
		Prompt: req.Prompt,
		System: req.SystemPrompt,
		Stream: false,
	}
	payload.Options.Temperature = req.Temperature
	payload.Options.NumPredict = req.MaxTokens

	raw, err := c.post(ctx, c.cfg.BaseURL+"/api/generate", payload, nil)
	if err != nil {
		return "", err
	}
	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", newErr(KindInvalidResponse, "decode response", err)
	}
	if parsed.Response == nil {
		return "", newErr(KindInvalidResponse, "missing response field", nil)
	}
	return strings.TrimSpace(*parsed.Response), nil
}
