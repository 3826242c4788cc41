package card

import (
	"regexp"
	"time"
)

// Network identifies the card brand derived from the account number.
type Network string

const (
	NetworkVisa     Network = "visa"
	NetworkAmex     Network = "amex"
	NetworkMC       Network = "mc"
	NetworkDiscover Network = "discover"
	NetworkDiners   Network = "diners"
	NetworkUnknown  Network = "unknown"
)

var networkPatterns = []struct {
	network Network
	pattern *regexp.Regexp
}{
	{NetworkVisa, regexp.MustCompile(`^4\d{12}(\d{3})?$`)},
	{NetworkAmex, regexp.MustCompile(`^37\d{13}$`)},
	{NetworkMC, regexp.MustCompile(`^5[1-5]\d{14}$`)},
	{NetworkDiscover, regexp.MustCompile(`^6011\d{12}`)},
	{NetworkDiners, regexp.MustCompile(`^(30[0-5]\d{11}|(36|38)\d{12})$`)},
}

var (
	cvvPattern     = regexp.MustCompile(`^\d{3,4}$`)
	routingPattern = regexp.MustCompile(`^\d{9}$`)
	emailPattern   = regexp.MustCompile(`^[\w.!#$%&'*+\-/=?^` + "`" + `{|}~]+@([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,6}$`)
)

// ClassifyNetwork matches the account number against the known brand
// patterns. Numbers matching no pattern are tagged NetworkUnknown rather
// than rejected; callers still run Luhn validation separately.
func ClassifyNetwork(number string) Network {
	for _, p := range networkPatterns {
		if p.pattern.MatchString(number) {
			return p.network
		}
	}
	return NetworkUnknown
}

// IsLuhnValid reports whether number passes the Luhn mod-10 checksum.
// The input must be digits only; anything else returns false.
func IsLuhnValid(number string) bool {
	if number == "" {
		return false
	}

	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsExpirationValid reports whether the month/year pair is still live.
// A card expiring this month is valid until the last instant of the month.
func IsExpirationValid(month, year int) bool {
	if month < 1 || month > 12 || year < 1 {
		return false
	}
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local).
		AddDate(0, 1, 0).
		Add(-time.Nanosecond)
	return time.Now().Before(endOfMonth)
}

// IsVerificationCodeValid reports whether code is exactly 3 or 4 ASCII digits.
func IsVerificationCodeValid(code string) bool {
	return cvvPattern.MatchString(code)
}

// IsRoutingNumberValid applies the 9-digit ABA checksum:
// 3(d1+d4+d7) + 7(d2+d5+d8) + (d3+d6+d9) must be a multiple of 10.
func IsRoutingNumberValid(aba string) bool {
	if !routingPattern.MatchString(aba) {
		return false
	}
	sum := 0
	for i := 0; i < 9; i += 3 {
		sum += 3 * int(aba[i]-'0')
		sum += 7 * int(aba[i+1]-'0')
		sum += int(aba[i+2] - '0')
	}
	return sum%10 == 0
}

// IsEmailValid reports whether the address is well formed enough to hand to
// a gateway. Deliverability is the gateway's problem.
func IsEmailValid(email string) bool {
	return emailPattern.MatchString(email)
}
