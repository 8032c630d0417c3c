package reconcile

import (
	"errors"
	"fmt"
)

// ErrUnavailable is matched by every error an adapter returns when its backend
// cannot be reached, times out, or returns content it cannot parse.
var ErrUnavailable = errors.New("adapter unavailable")

// AdapterError describes a failed adapter operation.
type AdapterError struct {
	Adapter string
	Op      string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Adapter, e.Op, e.Err)
}

// Unwrap exposes both ErrUnavailable and the underlying cause to errors.Is/As.
func (e *AdapterError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// Unavailable wraps err as an AdapterError. It returns nil when err is nil.
func Unavailable(adapter, op string, err error) error {
	if err == nil {
		return nil
	}
	return &AdapterError{Adapter: adapter, Op: op, Err: err}
}
