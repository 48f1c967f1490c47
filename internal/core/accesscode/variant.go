// Package accesscode contains the pure business logic for access codes.
// This is part of the Functional Core - no I/O, only pure functions.
package accesscode

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned when an operation is asked to act on a
// variant outside {Visitor, Contractor}.
var ErrUnknownVariant = errors.New("unknown code variant")

// ErrInvalidFormat is returned when a code string fails its variant's grammar
// or checksum.
var ErrInvalidFormat = errors.New("invalid code format")

// Variant identifies the category of an access code.
type Variant int

const (
	// Visitor codes look like VIS-ABC1234-0.
	Visitor Variant = iota + 1
	// Contractor codes look like TER-123-ABC-0.
	Contractor
)

const (
	visitorPrefix    = "VIS-"
	contractorPrefix = "TER-"
)

// Variants lists every known variant in display order.
func Variants() []Variant {
	return []Variant{Visitor, Contractor}
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	return v == Visitor || v == Contractor
}

// Prefix returns the literal prefix every code of this variant starts with.
func (v Variant) Prefix() string {
	switch v {
	case Visitor:
		return visitorPrefix
	case Contractor:
		return contractorPrefix
	default:
		return ""
	}
}

func (v Variant) String() string {
	switch v {
	case Visitor:
		return "visitor"
	case Contractor:
		return "contractor"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant resolves a user-facing variant name.
// Accepts the full name, the code prefix without the dash, or the menu number.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visitor", "vis", "v", "1":
		return Visitor, nil
	case "contractor", "ter", "c", "2":
		return Contractor, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// VariantOf returns the variant whose prefix s starts with.
func VariantOf(s string) (Variant, bool) {
	switch {
	case strings.HasPrefix(s, visitorPrefix):
		return Visitor, true
	case strings.HasPrefix(s, contractorPrefix):
		return Contractor, true
	}
	return 0, false
}
