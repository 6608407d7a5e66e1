package llm

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, url string) Client {
	t.Helper()
	c, err := New(Config{
		Provider:   "openai",
		BaseURL:    url,
		APIKey:     "test-key",
		Model:      "test-model",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		Logger:     discard(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	err := json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	require.NoError(t, err)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(Config{Provider: "openai", Logger: discard()})
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindAuth, lerr.Kind)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "bedrock", Logger: discard()})
	assert.ErrorContains(t, err, `unknown provider "bedrock"`)
}

func TestGenerateOpenAI(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply(t, w, "  generated text\n")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.Generate(context.Background(), Request{
		Prompt:       "write a bashrc",
		SystemPrompt: "you write config files",
	})
	require.NoError(t, err)

	assert.Equal(t, "generated text", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "user", gotReq.Messages[1].Role)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.InDelta(t, defaultTemperature, gotReq.Temperature, 1e-9)
	assert.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
}

func TestGenerateRequestOverrides(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		chatReply(t, w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	_, err := c.Generate(context.Background(), Request{
		Prompt:      "p",
		Temperature: 0.9,
		MaxTokens:   128,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.9, gotReq.Temperature, 1e-9)
	assert.Equal(t, 128, gotReq.MaxTokens)
}

func TestGenerateRetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		chatReply(t, w, "eventually")
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "eventually", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		chatReply(t, w, "recovered")
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindRateLimit, lerr.Kind)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateAuthErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindAuth, lerr.Kind)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGenerateInvalidResponse(t *testing.T) {
	t.Run("no choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"choices": []}`)
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, KindInvalidResponse, lerr.Kind)
		assert.False(t, lerr.Retryable())
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			chatReply(t, w, "   ")
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, KindInvalidResponse, lerr.Kind)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "not json")
		}))
		defer srv.Close()

		_, err := newTestClient(t, srv.URL).Generate(context.Background(), Request{Prompt: "p"})
		var lerr *Error
		require.ErrorAs(t, err, &lerr)
		assert.Equal(t, KindInvalidResponse, lerr.Kind)
	})
}

func TestGenerateContextCanceledDuringRetryWait(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(Config{
		Provider:   "openai",
		BaseURL:    srv.URL,
		APIKey:     "k",
		MaxRetries: 3,
		RetryDelay: time.Minute,
		Logger:     discard(),
	})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Generate(ctx, Request{Prompt: "p"})
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindTimeout, lerr.Kind)
}

func TestGenerateOllama(t *testing.T) {
	var gotReq ollamaRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		io.WriteString(w, `{"response": "local output"}`)
	}))
	defer srv.Close()

	c, err := New(Config{
		Provider: "ollama",
		BaseURL:  srv.URL,
		Model:    "llama3",
		Logger:   discard(),
	})
	require.NoError(t, err)
	defer c.Close()

	out, err := c.Generate(context.Background(), Request{Prompt: "p", SystemPrompt: "sys"})
	require.NoError(t, err)
	assert.Equal(t, "local output", out)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, "sys", gotReq.System)
	assert.Equal(t, defaultMaxTokens, gotReq.Options.NumPredict)
}

func TestGenerateOllamaMissingResponseField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"done": true}`)
	}))
	defer srv.Close()

	c, err := New(Config{Provider: "ollama", BaseURL: srv.URL, Logger: discard()})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Generate(context.Background(), Request{Prompt: "p"})
	var lerr *Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, KindInvalidResponse, lerr.Kind)
}
