package card

import "errors"

// Validation failure reasons. Each maps to exactly one check so callers can
// tell a user what to fix.
const (
	ReasonLuhn        = "luhn"
	ReasonExpired     = "expired"
	ReasonCVV         = "cvv"
	ReasonEmailFormat = "email_format"
	ReasonRouting     = "routing"
)

// ValidationError reports instrument or contact data that failed a
// well-formedness check before any network call was made.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// IsValidationError unwraps err into a *ValidationError if there is one.
func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	ok := errors.As(err, &vErr)
	return vErr, ok
}
