package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeInvalid  ErrorCode = "INVALID"
	ErrCodeConflict ErrorCode = "CONFLICT"
	ErrCodeStore    ErrorCode = "STORE"
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// StoreError classifies a persistence failure, keeping the driver error reachable via errors.Is/As.
func StoreError(collection string, err error) *Error {
	return WrapError(ErrCodeStore, collection+" store failure", err)
}

// Common domain errors.
var (
	ErrPersonNotFound              = NewError(ErrCodeNotFound, "person not found")
	ErrClientNotFound              = NewError(ErrCodeNotFound, "client not found")
	ErrLegalRepresentativeNotFound = NewError(ErrCodeNotFound, "legal representative not found")
	ErrAuthorizedSignatoryNotFound = NewError(ErrCodeNotFound, "authorized signatory not found")

	ErrClientExists              = NewError(ErrCodeConflict, "client already exists")
	ErrLegalRepresentativeExists = NewError(ErrCodeConflict, "legal representative already exists")
	ErrAuthorizedSignatoryExists = NewError(ErrCodeConflict, "authorized signatory already exists")

	ErrLegalRepresentativeRequired = NewError(ErrCodeInvalid, "must supply at least one legal representative")
	ErrDuplicateDocumentInBatch    = NewError(ErrCodeInvalid, "duplicate document number in batch")
	ErrInvalidPayload              = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsNotFound reports whether err carries the NOT_FOUND classification.
func IsNotFound(err error) bool {
	return IsDomainError(err, ErrCodeNotFound)
}
