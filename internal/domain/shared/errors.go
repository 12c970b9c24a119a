// Package shared contains common domain errors used across the registry packages.
// This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidFormat   = errors.New("invalid format")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrUnavailable     = errors.New("source unavailable")
	ErrExhausted       = errors.New("resource exhausted")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "identifier", "storage"
	Op      string // Operation that failed, e.g., "Issue", "Load"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching. Two DomainErrors match when they share
// domain, operation and kind, so wrapped sentinels still compare equal.
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if errors.As(target, &de) {
		return e.Domain == de.Domain && e.Op == de.Op && e.Kind == de.Kind
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing domain error with a cause, keeping its identity.
func WrapError(base *DomainError, err error) *DomainError {
	return &DomainError{
		Domain:  base.Domain,
		Op:      base.Op,
		Kind:    base.Kind,
		Message: base.Message,
		Err:     err,
	}
}

// Registry errors.
var (
	ErrInvalidMajor         = NewDomainError("identifier", "Issue", ErrInvalidInput, "invalid major code")
	ErrInvalidStartYear     = NewDomainError("identifier", "Issue", ErrInvalidFormat, "start year must be 4 digits")
	ErrSerialSpaceExhausted = NewDomainError("identifier", "Generate", ErrExhausted, "no unused serials left for today")
	ErrMalformedIdentifier  = NewDomainError("identifier", "Validate", ErrInvalidFormat, "identifier must be digits only")
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student not found")
	ErrMissingSource        = NewDomainError("storage", "Load", ErrUnavailable, "storage source does not exist")
	ErrUnknownMajorName     = NewDomainError("storage", "Load", ErrValueOutOfRange, "unknown major name")
)

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
