package budget

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures so callers can branch without string
// matching.
type Kind int

const (
	// NotFound means the referenced entity does not exist.
	NotFound Kind = iota + 1
	// InvalidOperation means the request violates a domain rule.
	InvalidOperation
	// Persistence means the mutation applied in memory but the
	// write-through to the store failed.
	Persistence
)

// Error is the engine's error type. Internal, when set, carries the
// underlying cause (an I/O error behind a Persistence failure).
type Error struct {
	Kind     Kind
	Message  string
	Internal error
}

func (e *Error) Error() string {
	if e.Internal != nil && e.Message == "" {
		return e.Internal.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Internal }

// NotFoundf returns a NotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidOperationf returns an InvalidOperation error.
func InvalidOperationf(format string, args ...any) error {
	return &Error{Kind: InvalidOperation, Message: fmt.Sprintf(format, args...)}
}

// PersistenceErr wraps a failed write-through. The in-memory change stands;
// only durability is in doubt.
func PersistenceErr(cause error) error {
	return &Error{Kind: Persistence, Message: "ledger not saved: " + cause.Error(), Internal: cause}
}

func isKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// IsNotFound reports whether err is a NotFound engine error.
func IsNotFound(err error) bool { return isKind(err, NotFound) }

// IsInvalidOperation reports whether err is an InvalidOperation engine error.
func IsInvalidOperation(err error) bool { return isKind(err, InvalidOperation) }

// IsPersistence reports whether err is a Persistence engine error.
func IsPersistence(err error) bool { return isKind(err, Persistence) }
