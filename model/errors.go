package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed provider call or a rejected operation.
type ErrorKind string

const (
	InvalidInput        ErrorKind = "invalid_input"
	ProviderUnavailable ErrorKind = "provider_unavailable"
	NotFound            ErrorKind = "not_found"
)

// sentinels for errors.Is comparisons
var (
	ErrInvalidInput        = &Error{Kind: InvalidInput}
	ErrProviderUnavailable = &Error{Kind: ProviderUnavailable}
	ErrNotFound            = &Error{Kind: NotFound}
)

// Error carries a kind plus the operation that produced it.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

// NewError builds an Error for op. err may be nil.
func NewError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so sentinels compare by kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
