package commonerrors

import (
	"errors"
	"fmt"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
	CategoryExternal     ErrorCategory = "EXTERNAL"
)

// DomainError is an error that knows how it should be reported to a caller.
// Message is safe to show; the cause is for logs only.
type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	// Details maps form field names to messages for validation failures.
	Details() map[string]string
	Unwrap() error
	WithCause(cause error) DomainError
	WithDetails(details map[string]string) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	status   int
	message  string
	details  map[string]string
	cause    error
}

func NewDomainError(code string, category ErrorCategory, status int, message string) DomainError {
	return &domainError{code: code, category: category, status: status, message: message}
}

func (e *domainError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.cause)
}

func (e *domainError) Code() string               { return e.code }
func (e *domainError) Category() ErrorCategory    { return e.category }
func (e *domainError) HTTPStatus() int            { return e.status }
func (e *domainError) Message() string            { return e.message }
func (e *domainError) Details() map[string]string { return e.details }
func (e *domainError) Unwrap() error              { return e.cause }

// Is compares codes, so copies derived from a sentinel still match it.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	return ok && e.code == t.code
}

func (e *domainError) WithCause(cause error) DomainError {
	c := *e
	c.cause = cause
	return &c
}

func (e *domainError) WithDetails(details map[string]string) DomainError {
	c := *e
	c.details = details
	return &c
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
