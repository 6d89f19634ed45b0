package model

import (
	"errors"
	"fmt"
)

// Kind classifies an author error.
type Kind int

const (
	KindValidation Kind = iota + 1 // empty or insecure input
	KindRange                      // length bound violated
	KindFormat                     // wrong encoding (non-hex token, foreign hash algorithm, bad uuid)
	KindStore                      // failure reported by the relational store
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindRange:
		return "range"
	case KindFormat:
		return "format"
	case KindStore:
		return "store"
	}
	return "unknown"
}

// Error is the single error type returned by the author domain.
// Match a kind with errors.Is(err, ErrRange) and friends; the original
// cause stays reachable through errors.Unwrap.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Msg == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is a bare kind sentinel of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Msg == "" && t.Field == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind sentinels
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrRange      = &Error{Kind: KindRange}
	ErrFormat     = &Error{Kind: KindFormat}
	ErrStore      = &Error{Kind: KindStore}
)

// Business rule errors, carried as the cause of a store error
var (
	ErrAuthorNotFound    = errors.New("author not found")
	ErrDuplicateEmail    = errors.New("author with this email already exists")
	ErrDuplicateUsername = errors.New("author with this username already exists")
)

func newError(kind Kind, field, msg string, cause error) *Error {
	return &Error{Kind: kind, Field: field, Msg: msg, Err: cause}
}

// StoreError wraps a persistence failure. An *Error already carrying
// KindStore is returned unchanged; any other cause keeps its message.
func StoreError(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) && e.Kind == KindStore {
		return cause
	}
	return &Error{Kind: KindStore, Msg: fmt.Sprintf("%s: %v", op, cause), Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
