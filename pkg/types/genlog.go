package types

import "time"

// GenerationLogEntry is the audit record of one generation call.
// Created once, never mutated, queried only for metrics.
type GenerationLogEntry struct {
	GenerationID     string         `json:"generation_id"`
	ContentType      string         `json:"content_type"`
	FileType         string         `json:"file_type,omitempty"`
	HoneypotID       string         `json:"honeypot_id,omitempty"`
	PromptHash       string         `json:"prompt_hash,omitempty"`
	ValidationScore  float64        `json:"validation_score"`
	IsValid          bool           `json:"is_valid"`
	CreatedAt        time.Time      `json:"created_at"`
	GenerationTimeMS int64          `json:"generation_time_ms"`
	EntryMetadata    map[string]any `json:"entry_metadata,omitempty"`
}
