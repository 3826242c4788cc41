package gateway

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/paybridge/gateway/internal/card"
)

// Request is the gateway-specific payload being assembled for a single
// operation. It is a call-scoped value: adapters build a fresh one inside
// every call so concurrent operations against the same adapter instance
// can never corrupt each other.
type Request struct {
	fields url.Values
}

func NewRequest() *Request {
	return &Request{fields: url.Values{}}
}

func (r *Request) Set(key, value string) {
	r.fields.Set(key, value)
}

func (r *Request) Unset(key string) {
	r.fields.Del(key)
}

func (r *Request) Get(key string) string {
	return r.fields.Get(key)
}

// Values exposes the payload in transport-ready form.
func (r *Request) Values() url.Values {
	return r.fields
}

// Billing is the canonical billing contact record. Every field is
// optional; present fields are copied verbatim except email, which must be
// well formed.
type Billing struct {
	FirstName string
	LastName  string
	Address   string
	Address2  string
	City      string
	State     string
	Zipcode   string
	Country   string
	Phone     string
	Email     string
	IP        string
}

// Shipping is the canonical shipping record. Explicitly supplied fields
// the gateway cannot carry are an error, never silent data loss.
type Shipping struct {
	FirstName string
	LastName  string
	Address   string
	Address2  string
	City      string
	State     string
	Zipcode   string
	Country   string
	Company   string
	Phone     string
	Email     string
}

// BuildOptions are the per-gateway quirks applied while assembling a
// request. They affect only the request being built, never the shared
// instrument.
type BuildOptions struct {
	// TwoDigitExpYear renders the expiration year (and derived exp_date)
	// with two digits for gateways that reject four.
	TwoDigitExpYear bool
}

// ApplyCard writes the instrument's canonical fields into the request via
// the mapping table. The card is validated first so bad data fails before
// any network call.
func ApplyCard(r *Request, m FieldMapping, c *card.CreditCard, opts BuildOptions) error {
	if c == nil {
		return NewMissingRequiredDataError("a credit card")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	expYear := strconv.Itoa(c.ExpYear)
	expDate := c.ExpDate()
	if opts.TwoDigitExpYear {
		expYear = fmt.Sprintf("%02d", c.ExpYear%100)
		expDate = fmt.Sprintf("%02d/%s", c.ExpMonth, expYear)
	}

	values := []struct {
		field Field
		value string
	}{
		{FieldNumber, c.Number},
		{FieldExpDate, expDate},
		{FieldExpMonth, fmt.Sprintf("%02d", c.ExpMonth)},
		{FieldExpYear, expYear},
		{FieldVerificationValue, c.Verification},
		{FieldCardType, string(c.Network())},
		{FieldFullName, c.HolderName()},
		{FieldFirstName, c.FirstName},
		{FieldLastName, c.LastName},
	}

	for _, v := range values {
		key, supported, err := m.Key(v.field)
		if err != nil {
			return err
		}
		if !supported || v.value == "" {
			continue
		}
		r.Set(key, v.value)
	}
	return nil
}

// ApplyBilling writes present billing fields into the request. Fields the
// gateway has no key for are skipped silently; the email format is
// validated before insertion.
func ApplyBilling(r *Request, m FieldMapping, b *Billing) error {
	if b == nil {
		return nil
	}
	if b.Email != "" && !card.IsEmailValid(b.Email) {
		return card.NewValidationError(card.ReasonEmailFormat, "billing email does not pass format validation")
	}

	values := []struct {
		field Field
		value string
	}{
		{FieldFirstName, b.FirstName},
		{FieldLastName, b.LastName},
		{FieldAddress, b.Address},
		{FieldAddress2, b.Address2},
		{FieldCity, b.City},
		{FieldState, b.State},
		{FieldZipcode, b.Zipcode},
		{FieldCountry, b.Country},
		{FieldPhone, b.Phone},
		{FieldEmail, b.Email},
		{FieldIP, b.IP},
	}

	for _, v := range values {
		if v.value == "" {
			continue
		}
		key, supported, err := m.Key(v.field)
		if err != nil {
			return err
		}
		if !supported {
			continue
		}
		r.Set(key, v.value)
	}
	return nil
}

// ApplyShipping writes shipping fields into the request. Unlike billing,
// an explicitly supplied field with no gateway equivalent fails with an
// unsupported-field error: shipping data must never be dropped silently.
func ApplyShipping(r *Request, m FieldMapping, s *Shipping) error {
	if s == nil {
		return nil
	}

	values := []struct {
		field Field
		value string
	}{
		{FieldShipFirstName, s.FirstName},
		{FieldShipLastName, s.LastName},
		{FieldShipAddress, s.Address},
		{FieldShipAddress2, s.Address2},
		{FieldShipCity, s.City},
		{FieldShipState, s.State},
		{FieldShipZipcode, s.Zipcode},
		{FieldShipCountry, s.Country},
		{FieldShipCompany, s.Company},
		{FieldShipPhone, s.Phone},
		{FieldShipEmail, s.Email},
	}

	for _, v := range values {
		if v.value == "" {
			continue
		}
		key, supported, err := m.Key(v.field)
		if err != nil {
			return err
		}
		if !supported {
			return NewUnsupportedFieldError(v.field)
		}
		r.Set(key, v.value)
	}
	return nil
}
