package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a lookup miss. Use errors.Is to test for it.
var ErrNotFound = errors.New("not found")

// Error is the single storage-error kind. It names the failed
// operation and carries the original cause without leaking the
// backend's error types into caller logic.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func opErr(op string, err error) error {
	return &Error{Op: op, Err: err}
}
