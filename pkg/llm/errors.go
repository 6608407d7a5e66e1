package llm

import "fmt"

// Kind classifies generation failures. Connection, timeout, and
// rate-limit failures are transient and retried; authentication and
// invalid-response failures are not.
type Kind int

const (
	KindConnection Kind = iota
	KindTimeout
	KindRateLimit
	KindAuth
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindTimeout:
		return "timeout"
	case KindRateLimit:
		return "rate limit"
	case KindAuth:
		return "authentication"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

// Error is a classified generation failure.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("llm: %s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindConnection, KindTimeout, KindRateLimit:
		return true
	default:
		return false
	}
}

func newErr(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}
