package domain

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "INVALID_INPUT"
	KindNotFound          ErrorKind = "NOT_FOUND"
	KindInsufficientStock ErrorKind = "INSUFFICIENT_STOCK"
	KindDatabase          ErrorKind = "DATABASE_ERROR"
)

// Error is the error type returned by the catalog, shipping and order services.
// Details carries structured context (offending product id, available stock) for API clients.
type Error struct {
	Kind    ErrorKind
	Message string
	Details interface{}
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrInvalidInput      = &Error{Kind: KindInvalidInput}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInsufficientStock = &Error{Kind: KindInsufficientStock}
	ErrDatabase          = &Error{Kind: KindDatabase}
)

func InvalidInput(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStock reports a line whose quantity exceeds what is on hand.
func InsufficientStock(productID int64, name string, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product %q (id %d), available: %d", name, productID, available),
		Details: map[string]interface{}{"product_id": productID, "available": available},
	}
}

// DatabaseError wraps a storage failure, keeping the stack of the call site.
func DatabaseError(err error, msg string) *Error {
	return &Error{Kind: KindDatabase, Message: msg, Err: errors.WithStack(err)}
}

// KindOf returns the kind of a domain error, or an empty kind for foreign errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
