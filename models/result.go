package models

import "errors"

// ErrorKind classifies an ActionError so callers can branch on it.
type ErrorKind string

const (
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindValidation   ErrorKind = "validation"
	KindRule         ErrorKind = "rule"
	KindNotFound     ErrorKind = "not_found"
	// KindPending marks a soft failure: the side effect happened but the
	// caller still gets a message to show instead of a success.
	KindPending  ErrorKind = "pending"
	KindInternal ErrorKind = "internal"
)

// ActionError is the caller-facing error of an action. Message is safe to
// show to end users.
type ActionError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"error"`
}

func (e *ActionError) Error() string {
	return e.Message
}

// Result is either a value or an ActionError, never both.
type Result[T any] struct {
	Value T
	Err   *ActionError
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Fail[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{Err: &ActionError{Kind: kind, Message: message}}
}

func Failed[T any](err *ActionError) Result[T] {
	return Result[T]{Err: err}
}

// FailWith converts err into a failed Result. ActionErrors keep their kind,
// anything else becomes an internal failure with the given message.
func FailWith[T any](err error, message string) Result[T] {
	var ae *ActionError
	if errors.As(err, &ae) && ae != nil {
		return Result[T]{Err: ae}
	}
	return Fail[T](KindInternal, message)
}
