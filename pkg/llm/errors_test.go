package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRetryable(t *testing.T) {
	tests := []struct {
		kind      Kind
		retryable bool
	}{
		{KindConnection, true},
		{KindTimeout, true},
		{KindRateLimit, true},
		{KindAuth, false},
		{KindInvalidResponse, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			e := newErr(tt.kind, "msg", nil)
			assert.Equal(t, tt.retryable, e.Retryable())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	e := newErr(KindConnection, "request failed", cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "connection")
	assert.Contains(t, e.Error(), "connection refused")
}
