package gateway

import (
	"github.com/shopspring/decimal"
)

// Amount representation stays a gateway-level concern: callers hand the
// engine a decimal string, and each adapter converts it to the scale its
// processor expects.

// FormatAmount normalizes a caller-supplied amount to the dollars-and-cents
// string most processors expect ("10" -> "10.00").
func FormatAmount(amount string) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", NewInvalidAmountError(amount, err)
	}
	return d.StringFixed(2), nil
}

// AmountMinorUnits converts a decimal amount string to integer minor units
// ("10.00" -> 1000) for processors that reject decimal points.
func AmountMinorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, NewInvalidAmountError(amount, err)
	}
	return d.Shift(2).IntPart(), nil
}

// AmountFromMinorUnits is the inverse: a minor-unit string from a gateway
// response back to dollars and cents ("1000" -> "10.00").
func AmountFromMinorUnits(minor string) (string, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return "", NewInvalidAmountError(minor, err)
	}
	return d.Shift(-2).StringFixed(2), nil
}
