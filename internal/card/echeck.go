package card

import "strings"

// ECheck is the canonical bank-account instrument for ACH-style gateways.
type ECheck struct {
	RoutingNumber string
	AccountNumber string
	AccountType   string
	BankName      string
	FirstName     string
	LastName      string
	AccountName   string
	CheckNumber   string
}

// HolderName returns the explicit account name, or first and last joined.
func (e *ECheck) HolderName() string {
	if e.AccountName != "" {
		return e.AccountName
	}
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Validate checks the ABA routing number checksum and account number
// presence before the instrument is handed to a gateway.
func (e *ECheck) Validate() error {
	if !IsRoutingNumberValid(e.RoutingNumber) {
		return NewValidationError(ReasonRouting, "routing number does not pass ABA validation")
	}
	return nil
}

// IsValid is the non-failing wrapper around Validate.
func (e *ECheck) IsValid() bool {
	return e.Validate() == nil
}
