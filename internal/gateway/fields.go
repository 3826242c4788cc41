package gateway

// Field is a name in the canonical transaction vocabulary, independent of
// any one gateway's wire format.
type Field string

const (
	// Contact.
	FieldFullName  Field = "full_name"
	FieldFirstName Field = "first_name"
	FieldLastName  Field = "last_name"
	FieldEmail     Field = "email"
	FieldPhone     Field = "phone"

	// Billing.
	FieldAddress  Field = "address"
	FieldAddress2 Field = "address2"
	FieldCity     Field = "city"
	FieldState    Field = "state"
	FieldZipcode  Field = "zipcode"
	FieldCountry  Field = "country"
	FieldIP       Field = "ip"

	// Instrument.
	FieldNumber            Field = "number"
	FieldExpDate           Field = "exp_date"
	FieldExpMonth          Field = "exp_month"
	FieldExpYear           Field = "exp_year"
	FieldVerificationValue Field = "verification_value"
	FieldCardType          Field = "card_type"

	// Shipping.
	FieldShipFullName  Field = "ship_full_name"
	FieldShipFirstName Field = "ship_first_name"
	FieldShipLastName  Field = "ship_last_name"
	FieldShipCompany   Field = "ship_to_co"
	FieldShipAddress   Field = "ship_address"
	FieldShipAddress2  Field = "ship_address2"
	FieldShipCity      Field = "ship_city"
	FieldShipState     Field = "ship_state"
	FieldShipZipcode   Field = "ship_zipcode"
	FieldShipCountry   Field = "ship_country"
	FieldShipPhone     Field = "ship_phone"
	FieldShipEmail     Field = "ship_email"

	// Transaction.
	FieldAmount        Field = "amount"
	FieldTransType     Field = "trans_type"
	FieldTransID       Field = "trans_id"
	FieldAltTransID    Field = "alt_trans_id"
	FieldSplitTenderID Field = "split_tender_id"
	FieldIsPartial     Field = "is_partial"
)

// Unsupported is the explicit absence marker: the gateway has no key for
// this canonical field and the builder skips it silently. A field missing
// from the table entirely is a configuration defect, not a skip.
const Unsupported = ""

// FieldMapping is the request-direction half of a gateway's dictionary:
// canonical field name to gateway-specific request key. Tables are defined
// once per adapter and never mutated.
type FieldMapping map[Field]string

// Key resolves a canonical field. supported is false for an Unsupported
// marker; a missing entry returns a mapping-defect error.
func (m FieldMapping) Key(f Field) (key string, supported bool, err error) {
	k, ok := m[f]
	if !ok {
		return "", false, NewMappingDefectError(f)
	}
	if k == Unsupported {
		return "", false, nil
	}
	return k, true, nil
}

// Supports reports whether the gateway carries the canonical field at all.
func (m FieldMapping) Supports(f Field) bool {
	k, ok := m[f]
	return ok && k != Unsupported
}

// ResponseMapping is the response-direction half: gateway response key (or
// stringified position index for delimited gateways) to canonical field
// name. Unmapped response keys are dropped silently.
type ResponseMapping map[string]Field
