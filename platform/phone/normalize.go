// Package phone normalizes visitor-entered phone numbers with libphonenumber.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is assumed for numbers entered without a country prefix.
const DefaultRegion = "GB"

// Number is a parsed phone number. Raw is always the trimmed input; E164 and
// Region are empty when the input is not a valid number.
type Number struct {
	Raw    string
	E164   string
	Region string
}

// Valid reports whether the input parsed to a dialable number.
func (n Number) Valid() bool {
	return n.E164 != ""
}

// String is the E.164 form when valid and the raw input otherwise, so
// nothing the visitor typed is lost.
func (n Number) String() string {
	if n.Valid() {
		return n.E164
	}
	return n.Raw
}

// Parse reads input against DefaultRegion.
func Parse(input string) Number {
	return ParseIn(input, DefaultRegion)
}

// ParseIn reads input, using region for numbers without a + prefix.
func ParseIn(input, region string) Number {
	n := Number{Raw: strings.TrimSpace(input)}
	if n.Raw == "" {
		return n
	}

	parsed, err := phonenumbers.Parse(n.Raw, region)
	if err != nil || !phonenumbers.IsValidNumber(parsed) {
		return n
	}

	n.E164 = phonenumbers.Format(parsed, phonenumbers.E164)
	n.Region = phonenumbers.GetRegionCodeForNumber(parsed)
	return n
}
