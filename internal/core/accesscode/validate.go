package accesscode

import (
	"fmt"
	"regexp"
)

var (
	visitorPattern    = regexp.MustCompile(`^VIS-([A-Z]{3})([0-9]{4})-([0-9])$`)
	contractorPattern = regexp.MustCompile(`^TER-([0-9]{3})-([A-Z]{3})-([0-9])$`)
)

// Validate checks s against the grammar and checksum of variant v.
// Returns nil when s is a well-formed code of that variant.
func Validate(v Variant, s string) error {
	switch v {
	case Visitor:
		m := visitorPattern.FindStringSubmatch(s)
		if m == nil {
			return fmt.Errorf("%w: %q does not match VIS-AAA9999-X", ErrInvalidFormat, s)
		}
		return verifyCheckDigit(s, VisitorCheckDigit(m[2]), m[3])
	case Contractor:
		m := contractorPattern.FindStringSubmatch(s)
		if m == nil {
			return fmt.Errorf("%w: %q does not match TER-999-AAA-Y", ErrInvalidFormat, s)
		}
		return verifyCheckDigit(s, ContractorCheckDigit(m[2]), m[3])
	default:
		return fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
}

// VisitorCheckDigit returns the sum of the decimal digits in block, mod 10.
func VisitorCheckDigit(block string) int {
	sum := 0
	for _, c := range block {
		sum += int(c - '0')
	}
	return sum % 10
}

// ContractorCheckDigit returns the sum of the character codes in letters, mod 10.
func ContractorCheckDigit(letters string) int {
	sum := 0
	for _, c := range letters {
		sum += int(c)
	}
	return sum % 10
}

func verifyCheckDigit(s string, want int, got string) error {
	if int(got[0]-'0') != want {
		return fmt.Errorf("%w: %q has check digit %s, expected %d", ErrInvalidFormat, s, got, want)
	}
	return nil
}
