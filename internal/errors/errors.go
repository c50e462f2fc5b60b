// Package errors provides structured error types for Nelson.
// These errors carry the operation that failed and a coarse kind so callers
// can decide between showing a message, ignoring a no-op, or giving up.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindAuth
	KindIO
	KindNetwork
	KindConfig
	KindStorage
	KindAssistant
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindAuth:
		return "authentication error"
	case KindIO:
		return "I/O error"
	case KindNetwork:
		return "network error"
	case KindConfig:
		return "configuration error"
	case KindStorage:
		return "storage error"
	case KindAssistant:
		return "assistant error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for Nelson.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Message returns the innermost human-readable message of err.
// Auth errors are shown to the user verbatim, so the op prefix is dropped.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Context != "" {
			return e.Context
		}
		return e.Err.Error()
	}
	return err.Error()
}

// Chat errors
func ChatNotFound(id string) error {
	return E(Op("chat.Lookup"), KindNotFound, fmt.Sprintf("chat %s not found", id))
}

// Auth errors
func AuthRejected(op Op, message string) error {
	return E(op, KindAuth, message)
}

func ProviderFailed(op Op, err error) error {
	return E(op, KindNetwork, "identity provider request failed", err)
}

// Storage errors
func StorageFailed(op Op, err error) error {
	return E(op, KindStorage, err)
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Assistant errors
func ResponderFailed(chatID string, err error) error {
	return E(Op("assistant.Respond"), KindAssistant, fmt.Sprintf("failed to get reply for chat %s", chatID), err)
}
