package serve

import (
	"encoding/json"

	"github.com/decoyhive/decoyhive/pkg/types"
)

// Request is an incoming NDJSON request.
type Request struct {
	Type    string          `json:"type"` // "validate" | "generate_token" | "check_token" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ValidatePayload is the payload for "validate" requests.
type ValidatePayload struct {
	Content  string `json:"content"`
	FileType string `json:"file_type"`
}

// ValidateData is the data field for "validate" responses.
type ValidateData struct {
	Valid        bool                               `json:"valid"`
	OverallScore float64                            `json:"overall_score"`
	Results      map[string]*types.ValidationResult `json:"results"`
}

// GenerateTokenPayload is the payload for "generate_token" requests.
type GenerateTokenPayload struct {
	TokenType  string `json:"token_type"`
	FormatHint string `json:"format_hint,omitempty"`
	HoneypotID string `json:"honeypot_id,omitempty"`
	FilePath   string `json:"file_path,omitempty"`
	// Persist controls whether the issued value is recorded in the
	// store. Unpersisted values are not detectable later.
	Persist bool `json:"persist"`
}

// GenerateTokenData is the data field for "generate_token" responses.
type GenerateTokenData struct {
	TokenValue string            `json:"token_value"`
	Token      *types.Honeytoken `json:"token,omitempty"`
}

// CheckTokenPayload is the payload for "check_token" requests.
type CheckTokenPayload struct {
	Value string `json:"value"`
}

// CheckTokenData is the data field for "check_token" responses. Found
// is false for values never issued; no error is raised for a miss.
type CheckTokenData struct {
	Found bool              `json:"found"`
	Token *types.Honeytoken `json:"token,omitempty"`
}

// Response is an outgoing NDJSON response.
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | request type | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses.
type ReadyData struct {
	Version string `json:"version"`
}
