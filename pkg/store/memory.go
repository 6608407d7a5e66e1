package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/decoyhive/decoyhive/pkg/types"
)

// Memory is an in-memory Store for tests and short-lived runs.
// Records returned to callers are copies; mutating them does not
// touch the store's state.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]*types.Honeytoken
	logs   []*types.GenerationLogEntry
	logger *slog.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory(logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		tokens: make(map[string]*types.Honeytoken),
		logger: logger,
	}
}

func (m *Memory) Close() error { return nil }

func copyToken(t *types.Honeytoken) *types.Honeytoken {
	c := *t
	if t.AccessedAt != nil {
		at := *t.AccessedAt
		c.AccessedAt = &at
	}
	if t.TokenMetadata != nil {
		meta := make(map[string]any, len(t.TokenMetadata))
		for k, v := range t.TokenMetadata {
			meta[k] = v
		}
		c.TokenMetadata = meta
	}
	return &c
}

func (m *Memory) CreateToken(_ context.Context, p CreateTokenParams) (*types.Honeytoken, error) {
	tok := &types.Honeytoken{
		TokenID:       newID(),
		TokenType:     p.TokenType,
		TokenValue:    p.TokenValue,
		HoneypotID:    p.HoneypotID,
		FilePath:      p.FilePath,
		CreatedAt:     time.Now().UTC(),
		IsActive:      true,
		TokenMetadata: p.Metadata,
	}
	m.mu.Lock()
	m.tokens[tok.TokenID] = tok
	m.mu.Unlock()
	m.logger.Debug("honeytoken created",
		"token_id", tok.TokenID, "token_type", tok.TokenType,
		"honeypot_id", tok.HoneypotID)
	return copyToken(tok), nil
}

func (m *Memory) GetToken(_ context.Context, tokenID string) (*types.Honeytoken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tok, ok := m.tokens[tokenID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyToken(tok), nil
}

func (m *Memory) CheckToken(_ context.Context, value string) (*types.Honeytoken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hit *types.Honeytoken
	for _, tok := range m.tokens {
		if !tok.IsActive || tok.TokenValue != value {
			continue
		}
		if hit == nil || tok.CreatedAt.Before(hit.CreatedAt) ||
			(tok.CreatedAt.Equal(hit.CreatedAt) && tok.TokenID < hit.TokenID) {
			hit = tok
		}
	}
	if hit == nil {
		return nil, ErrNotFound
	}
	now := time.Now().UTC()
	hit.AccessedAt = &now
	hit.AccessCount++
	m.logger.Warn("honeytoken accessed",
		"token_id", hit.TokenID, "token_type", hit.TokenType,
		"honeypot_id", hit.HoneypotID, "access_count", hit.AccessCount)
	return copyToken(hit), nil
}

func (m *Memory) ListTokens(_ context.Context, f ListFilter) ([]*types.Honeytoken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.Honeytoken
	for _, tok := range m.tokens {
		if !f.IncludeInactive && !tok.IsActive {
			continue
		}
		if f.HoneypotID != "" && tok.HoneypotID != f.HoneypotID {
			continue
		}
		if f.TokenType != "" && tok.TokenType != f.TokenType {
			continue
		}
		out = append(out, copyToken(tok))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].TokenID > out[j].TokenID
	})
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Memory) DeactivateToken(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tok, ok := m.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if tok.IsActive {
		m.logger.Info("honeytoken deactivated", "token_id", tokenID)
	}
	tok.IsActive = false
	return true, nil
}

func (m *Memory) AddGenerationLog(_ context.Context, e *types.GenerationLogEntry) error {
	if e.GenerationID == "" {
		e.GenerationID = newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	c := *e
	m.mu.Lock()
	m.logs = append(m.logs, &c)
	m.mu.Unlock()
	return nil
}

func (m *Memory) ListGenerationLogs(_ context.Context, honeypotID string, limit int) ([]*types.GenerationLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.GenerationLogEntry
	for i := len(m.logs) - 1; i >= 0; i-- {
		e := m.logs[i]
		if honeypotID != "" && e.HoneypotID != honeypotID {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
