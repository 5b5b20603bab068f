// Package apperr classifies failures so every layer can tell a rejected
// request apart from a broken dependency.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable classification of an error.
type Kind string

const (
	Internal            Kind = "internal"
	InvalidArgument     Kind = "invalid_argument"
	NotFound            Kind = "not_found"
	DuplicateEntry      Kind = "duplicate_entry"
	UpstreamUnavailable Kind = "upstream_unavailable"
)

// Error carries a Kind along with the operation that failed.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match on kind: errors.Is(err, &Error{Kind: NotFound}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Message == "" && t.Err == nil
}

// New builds an error of the given kind.
func New(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to an underlying error.
func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Invalid(op, format string, args ...any) *Error {
	return New(InvalidArgument, op, format, args...)
}

func NotFoundf(op, format string, args ...any) *Error {
	return New(NotFound, op, format, args...)
}

func Duplicate(op, format string, args ...any) *Error {
	return New(DuplicateEntry, op, format, args...)
}

func Upstream(op string, err error) *Error {
	return Wrap(UpstreamUnavailable, op, err)
}

// KindOf returns the kind of the first *Error in the chain, or Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of the outermost *Error.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return ""
}
