package gateway

import (
	"fmt"
	"strconv"
	"time"
)

// Result is the canonical outcome of any operation. Approved and
// ResponseTime are always set; everything else is best effort, present
// only when the gateway's response carried a mappable value.
type Result struct {
	Approved     bool
	ResponseText string
	AuthCode     string
	AVSResponse  string
	CVVResponse  string
	TransID      string
	AltTransID   string
	Amount       string

	// ResponseTime is the transport round trip in seconds with two
	// decimal places, e.g. "0.42".
	ResponseTime string

	// Extra holds mapped canonical fields with no dedicated slot above
	// (response codes, split tender ids, card balances).
	Extra map[string]string
}

// FormatElapsed renders a transport duration the way ResponseTime wants it.
func FormatElapsed(elapsed time.Duration) string {
	return fmt.Sprintf("%.2f", elapsed.Seconds())
}

// StandardizeList normalizes an ordered, position-indexed gateway response.
// The mapping table keys positions by their stringified index; unmapped
// positions are dropped.
func StandardizeList(values []string, m ResponseMapping, elapsed time.Duration, approved bool) *Result {
	result := newResult(elapsed, approved)
	for i, value := range values {
		field, ok := m[strconv.Itoa(i)]
		if !ok {
			continue
		}
		result.assign(field, value)
	}
	return result
}

// StandardizeMap normalizes a key/value gateway response. Unmapped keys
// are dropped: gateways routinely return more fields than the canonical
// vocabulary covers.
func StandardizeMap(values map[string]string, m ResponseMapping, elapsed time.Duration, approved bool) *Result {
	result := newResult(elapsed, approved)
	for key, value := range values {
		field, ok := m[key]
		if !ok {
			continue
		}
		result.assign(field, value)
	}
	return result
}

// ErrorResult is the best-effort fallback for gateways that occasionally
// answer with unstructured error text instead of their normal encoding.
func ErrorResult(message string, elapsed time.Duration) *Result {
	result := newResult(elapsed, false)
	result.ResponseText = message
	return result
}

func newResult(elapsed time.Duration, approved bool) *Result {
	return &Result{
		Approved:     approved,
		ResponseTime: FormatElapsed(elapsed),
		Extra:        map[string]string{},
	}
}

func (r *Result) assign(field Field, value string) {
	switch field {
	case "response_text":
		r.ResponseText = value
	case "auth_code":
		r.AuthCode = value
	case "avs_response":
		r.AVSResponse = value
	case "cvv_response":
		r.CVVResponse = value
	case "trans_id":
		r.TransID = value
	case "alt_trans_id":
		r.AltTransID = value
	case "amount":
		r.Amount = value
	default:
		r.Extra[string(field)] = value
	}
}
