package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain layer. Only setup-time failures cross the
// core/caller boundary as errors; per-operation lookup and interaction
// failures are reported as soft results (bool/empty/nil) with a logged
// diagnostic instead.
var (
	ErrBrowserStart    = fmt.Errorf("browser could not be started")
	ErrSessionClosed   = fmt.Errorf("session is closed")
	ErrNotInitialized  = fmt.Errorf("session not initialized")
	ErrTimeout         = fmt.Errorf("operation timed out")
	ErrNavigation      = fmt.Errorf("navigation failed")
	ErrEmptyLocatorSet = fmt.Errorf("locator set is empty")
	ErrInvalidLocator  = fmt.Errorf("invalid locator")
)

// DomainError wraps a sentinel error with operation context.
type DomainError struct {
	Op     string // operation name (e.g., "Session.Navigate")
	Err    error  // underlying sentinel or wrapped error
	Detail string // human-readable detail
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *DomainError) Unwrap() error { return e.Err }

// NewDomainError creates a new DomainError.
func NewDomainError(op string, err error, detail string) *DomainError {
	return &DomainError{Op: op, Err: err, Detail: detail}
}

// WrapOp adds operation context to an error using fmt.Errorf wrapping.
// Returns nil if err is nil, enabling idiomatic use: return domain.WrapOp("op", err)
func WrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

// IsClosed reports whether err indicates use of a released session.
func IsClosed(err error) bool {
	return errors.Is(err, ErrSessionClosed) || errors.Is(err, ErrNotInitialized)
}
