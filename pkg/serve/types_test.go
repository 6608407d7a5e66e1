package serve

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_ValidateUnmarshal(t *testing.T) {
	input := `{"type":"validate","payload":{"content":"print('hi')","file_type":"python"}}`

	var req Request
	err := json.Unmarshal([]byte(input), &req)
	require.NoError(t, err)

	assert.Equal(t, "validate", req.Type)

	var payload ValidatePayload
	err = json.Unmarshal(req.Payload, &payload)
	require.NoError(t, err)

	assert.Equal(t, "print('hi')", payload.Content)
	assert.Equal(t, "python", payload.FileType)
}

func TestRequest_GenerateTokenUnmarshal(t *testing.T) {
	input := `{"type":"generate_token","payload":{"token_type":"ssn","format_hint":"","honeypot_id":"hp-9","persist":true}}`

	var req Request
	require.NoError(t, json.Unmarshal([]byte(input), &req))

	var payload GenerateTokenPayload
	require.NoError(t, json.Unmarshal(req.Payload, &payload))

	assert.Equal(t, "ssn", payload.TokenType)
	assert.Equal(t, "hp-9", payload.HoneypotID)
	assert.True(t, payload.Persist)
}

func TestResponse_Marshal(t *testing.T) {
	resp := Response{
		Success: true,
		Type:    "ready",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"success":true`)
	assert.Contains(t, string(data), `"type":"ready"`)
}
