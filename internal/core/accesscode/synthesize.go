package accesscode

import "fmt"

// Letters holds the three uppercase letters of a synthesized code.
type Letters [3]byte

// LettersFrom maps three indexes in [0,26) to uppercase letters.
func LettersFrom(a, b, c int) Letters {
	return Letters{byte('A' + a%26), byte('A' + b%26), byte('A' + c%26)}
}

func (l Letters) String() string { return string(l[:]) }

// VisitorNumber returns the 4-digit numeric block for a visitor counter.
func VisitorNumber(counter uint) uint {
	return 1000 + counter%9000
}

// ContractorNumber returns the 3-digit numeric block for a contractor counter.
func ContractorNumber(counter uint) uint {
	return 100 + counter%900
}

// Synthesize builds the code string for variant v from a counter and letters.
// The check digit is always computed from the synthesized fields, so the
// result is valid for v.
func Synthesize(v Variant, counter uint, letters Letters) (string, error) {
	switch v {
	case Visitor:
		block := fmt.Sprintf("%04d", VisitorNumber(counter))
		return fmt.Sprintf("VIS-%s%s-%d", letters, block, VisitorCheckDigit(block)), nil
	case Contractor:
		l := letters.String()
		return fmt.Sprintf("TER-%03d-%s-%d", ContractorNumber(counter), l, ContractorCheckDigit(l)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
}
