package models

import "errors"

// Error kinds for recoverable domain failures. Match them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError is a recoverable failure carrying a human readable message
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Kind
}

// NewNotFound returns a not-found domain error
func NewNotFound(message string) error {
	return &DomainError{Kind: ErrNotFound, Message: message}
}

// NewConflict returns a conflict domain error
func NewConflict(message string) error {
	return &DomainError{Kind: ErrConflict, Message: message}
}

// NewInvalid returns a validation domain error
func NewInvalid(message string) error {
	return &DomainError{Kind: ErrInvalid, Message: message}
}

// NewUnauthorized returns an authentication domain error
func NewUnauthorized(message string) error {
	return &DomainError{Kind: ErrUnauthorized, Message: message}
}

// IsDomainError reports whether err is, or wraps, a DomainError
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}
