package domain

import (
	"errors"
	"fmt"
)

// Error types for domain-specific errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConversion ErrorType = "conversion"
	ErrorTypeCompile    ErrorType = "compile"
	ErrorTypeInternal   ErrorType = "internal"
)

// DomainError represents a domain-specific error with context
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Detail is the client-facing message: the message plus the cause, without the type tag.
func (e *DomainError) Detail() string {
	if e.Err == nil {
		return e.Message
	}
	var inner *DomainError
	if errors.As(e.Err, &inner) {
		return fmt.Sprintf("%s: %s", e.Message, inner.Detail())
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// NewError creates a new domain error
func NewError(errType ErrorType, message string, err error) *DomainError {
	return &DomainError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func ValidationError(message string, err error) *DomainError {
	return NewError(ErrorTypeValidation, message, err)
}

func NotFoundError(message string, err error) *DomainError {
	return NewError(ErrorTypeNotFound, message, err)
}

func IOError(message string, err error) *DomainError {
	return NewError(ErrorTypeIO, message, err)
}

func ConversionError(message string, err error) *DomainError {
	return NewError(ErrorTypeConversion, message, err)
}

func CompileError(message string, err error) *DomainError {
	return NewError(ErrorTypeCompile, message, err)
}

func InternalError(message string, err error) *DomainError {
	return NewError(ErrorTypeInternal, message, err)
}

// TypeOf returns the type of the outermost DomainError in err's chain,
// or ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ErrorTypeInternal
}

// IsType reports whether err carries a DomainError of the given type.
func IsType(err error, t ErrorType) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Type == t
}

// IsNotFound reports whether err is a not-found condition.
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}
