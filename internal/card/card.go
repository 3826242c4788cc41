// Package card holds the canonical payment instruments (credit card and
// bank account) and the pure validation checks gateways run before any
// request leaves the process.
package card

import (
	"fmt"
	"strings"
)

// CreditCard is the canonical card-payment instrument. It is constructed
// once per transaction attempt and never mutated by the engine; gateways
// that want two-digit expiration years apply that transform to the request
// being built, not to the card.
type CreditCard struct {
	Number       string
	ExpMonth     int
	ExpYear      int
	FirstName    string
	LastName     string
	FullName     string
	Verification string

	// Strict makes a missing or malformed verification code a validation
	// failure instead of an optional field.
	Strict bool
}

// NewCreditCard builds a card from the digits-only account number and a
// 1-12 month with a 4-digit year.
func NewCreditCard(number string, expMonth, expYear int) *CreditCard {
	return &CreditCard{Number: number, ExpMonth: expMonth, ExpYear: expYear}
}

// Network derives the card brand from the number on every call so a card
// value built without the constructor still classifies correctly.
func (c *CreditCard) Network() Network {
	return ClassifyNetwork(c.Number)
}

// HolderName returns the explicit full name, or first and last joined.
func (c *CreditCard) HolderName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ExpDate formats the expiration as MM/YYYY.
func (c *CreditCard) ExpDate() string {
	return fmt.Sprintf("%02d/%04d", c.ExpMonth, c.ExpYear)
}

// SafeNumber masks all but the last four digits for logs and debug output.
func (c *CreditCard) SafeNumber() string {
	if len(c.Number) <= 4 {
		return c.Number
	}
	return strings.Repeat("*", len(c.Number)-4) + c.Number[len(c.Number)-4:]
}

// Validate checks the card number, expiration, and (in strict mode) the
// verification code. It fails fast with a reason-tagged ValidationError.
func (c *CreditCard) Validate() error {
	if !IsLuhnValid(c.Number) {
		return NewValidationError(ReasonLuhn, "card number does not pass luhn validation")
	}
	if !IsExpirationValid(c.ExpMonth, c.ExpYear) {
		return NewValidationError(ReasonExpired, "card expiration is not in the future")
	}
	if c.Strict && !IsVerificationCodeValid(c.Verification) {
		return NewValidationError(ReasonCVV, "card verification code is not valid")
	}
	return nil
}

// IsValid is the non-failing wrapper around Validate.
func (c *CreditCard) IsValid() bool {
	return c.Validate() == nil
}

func (c *CreditCard) String() string {
	return fmt.Sprintf("<CreditCard %s, %s, %s, expires %s>", c.HolderName(), c.Network(), c.SafeNumber(), c.ExpDate())
}
