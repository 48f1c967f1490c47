package accesscode

import "fmt"

// AccessCode is a single-use code. The code text and variant never change
// after construction; only the used flag does.
type AccessCode struct {
	code    string
	variant Variant
	used    bool
}

// New constructs an AccessCode of variant v from s.
// Fails with ErrInvalidFormat if s is not a valid code of that variant.
func New(v Variant, s string) (*AccessCode, error) {
	if err := Validate(v, s); err != nil {
		return nil, err
	}
	return &AccessCode{code: s, variant: v}, nil
}

// Parse constructs an AccessCode, picking the variant from the code prefix.
func Parse(s string) (*AccessCode, error) {
	v, ok := VariantOf(s)
	if !ok {
		return nil, fmt.Errorf("%w: no known prefix in %q", ErrUnknownVariant, s)
	}
	return New(v, s)
}

// Code returns the canonical code text.
func (c *AccessCode) Code() string { return c.code }

// Variant returns the code's category.
func (c *AccessCode) Variant() Variant { return c.variant }

// Used reports whether the code has been consumed.
func (c *AccessCode) Used() bool { return c.used }

// MarkUsed consumes the code. Marking a used code again is a no-op.
func (c *AccessCode) MarkUsed() { c.used = true }

// IsValid re-runs the grammar and checksum check on the stored code.
func (c *AccessCode) IsValid() bool {
	return Validate(c.variant, c.code) == nil
}

func (c *AccessCode) String() string {
	if c.used {
		return c.code + " | USED"
	}
	return c.code + " | AVAILABLE"
}
