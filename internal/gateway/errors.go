package gateway

import (
	"errors"
	"fmt"
)

// Error is the engine-level error shape: a stable code for callers to
// branch on plus a human-readable message.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

const (
	ErrCodeMissingRequiredData  = "MISSING_REQUIRED_DATA"
	ErrCodeUnsupportedField     = "UNSUPPORTED_FIELD"
	ErrCodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	ErrCodeMappingDefect        = "MAPPING_DEFECT"
	ErrCodeProtocol             = "GATEWAY_PROTOCOL"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
)

func NewMissingRequiredDataError(what string) *Error {
	return &Error{
		Code:    ErrCodeMissingRequiredData,
		Message: fmt.Sprintf("%s is required for this operation", what),
	}
}

func NewUnsupportedFieldError(field Field) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedField,
		Message: fmt.Sprintf("gateway does not support the %q field", field),
	}
}

func NewUnsupportedOperationError(gateway, operation string) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedOperation,
		Message: fmt.Sprintf("%s does not support %s", gateway, operation),
	}
}

// NewMappingDefectError flags a canonical field with no entry at all in a
// gateway's table. Unlike an Unsupported marker, this is a configuration
// bug in the adapter, not bad caller data.
func NewMappingDefectError(field Field) *Error {
	return &Error{
		Code:    ErrCodeMappingDefect,
		Message: fmt.Sprintf("no mapping entry for canonical field %q", field),
	}
}

func NewProtocolError(message string, err error) *Error {
	return &Error{
		Code:    ErrCodeProtocol,
		Message: message,
		Err:     err,
	}
}

func NewInvalidAmountError(amount string, err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("cannot parse amount %q", amount),
		Err:     err,
	}
}

// IsErrorCode checks whether err is an engine Error with the given code.
func IsErrorCode(err error, code string) bool {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Code == code
	}
	return false
}
