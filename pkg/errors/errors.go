package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors with proper types for error handling

var (
	// ErrConfiguration indicates missing or invalid process configuration
	ErrConfiguration = errors.New("configuration error")

	// ErrRateLimited indicates the caller exceeded its request budget
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrDispatch indicates the outbound mail transport failed
	ErrDispatch = errors.New("dispatch failed")
)

// ConfigurationError creates a configuration error naming the offending keys
func ConfigurationError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrConfiguration)
}

// ValidationError carries every human-readable validation message for a submission.
type ValidationError struct {
	Messages []string
}

// NewValidationError returns nil when there are no messages.
func NewValidationError(messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// DispatchKind classifies transport failures for logging and user messaging
type DispatchKind string

const (
	DispatchAuth       DispatchKind = "auth"
	DispatchConnection DispatchKind = "connection"
	DispatchGeneric    DispatchKind = "generic"
)

// DispatchError wraps a transport failure together with its classification.
type DispatchError struct {
	Kind DispatchKind
	Err  error
}

// NewDispatchError creates a dispatch error of the given kind
func NewDispatchError(kind DispatchKind, err error) *DispatchError {
	return &DispatchError{Kind: kind, Err: err}
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", ErrDispatch, e.Kind)
	}
	return fmt.Sprintf("%s (%s): %v", ErrDispatch, e.Kind, e.Err)
}

func (e *DispatchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDispatch}
	}
	return []error{ErrDispatch, e.Err}
}

// AsValidation extracts a *ValidationError from err
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// AsDispatch extracts a *DispatchError from err
func AsDispatch(err error) (*DispatchError, bool) {
	var de *DispatchError
	ok := errors.As(err, &de)
	return de, ok
}
