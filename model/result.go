package model

import (
	"encoding/json"
	"fmt"
)

// Result is either an ok value or a failure kind. A Result is never mutated
// after it is built.
type Result[T any] struct {
	value  T
	failed ErrorKind
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failed builds a failed Result of the given kind.
func Failed[T any](kind ErrorKind) Result[T] {
	if kind == "" {
		kind = ProviderUnavailable
	}
	return Result[T]{failed: kind}
}

// FromError maps err to a failed Result, or wraps v when err is nil.
// Errors without a kind count as ProviderUnavailable.
func FromError[T any](v T, err error) Result[T] {
	if err == nil {
		return OK(v)
	}
	kind := KindOf(err)
	if kind == "" {
		kind = ProviderUnavailable
	}
	return Failed[T](kind)
}

// IsOK reports whether the result carries a value.
func (r Result[T]) IsOK() bool { return r.failed == "" }

// Value returns the value and true, or the zero value and false.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.failed == ""
}

// Kind is the failure kind, empty for ok results.
func (r Result[T]) Kind() ErrorKind { return r.failed }

// Err converts a failure into an *Error. It returns nil for ok results.
func (r Result[T]) Err() error {
	if r.failed == "" {
		return nil
	}
	return &Error{Kind: r.failed}
}

func (r Result[T]) String() string {
	if r.failed != "" {
		return "failed(" + string(r.failed) + ")"
	}
	return fmt.Sprintf("ok(%v)", r.value)
}

type resultJSON[T any] struct {
	OK     *T        `json:"ok,omitempty"`
	Failed ErrorKind `json:"failed,omitempty"`
}

// MarshalJSON writes {"ok": v} or {"failed": kind}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.failed != "" {
		return json.Marshal(resultJSON[T]{Failed: r.failed})
	}
	v := r.value
	return json.Marshal(resultJSON[T]{OK: &v})
}

// UnmarshalJSON reads the form written by MarshalJSON.
func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var raw resultJSON[T]
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch {
	case raw.Failed != "":
		*r = Failed[T](raw.Failed)
	case raw.OK != nil:
		*r = OK(*raw.OK)
	default:
		return fmt.Errorf("result: neither ok nor failed set")
	}
	return nil
}
