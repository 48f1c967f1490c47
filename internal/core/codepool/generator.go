package codepool

import (
	"fmt"
	"math/rand/v2"

	"github.com/example/gatepass/internal/core/accesscode"
)

// LetterSource supplies uniform integers in [0,n).
// *rand.Rand from math/rand/v2 satisfies it.
type LetterSource interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultLetterSource draws from the math/rand/v2 global generator.
var DefaultLetterSource LetterSource = globalSource{}

func drawLetters(src LetterSource) accesscode.Letters {
	return accesscode.LettersFrom(src.IntN(26), src.IntN(26), src.IntN(26))
}

// GenerateOne mints a new code of variant v, appends it to the pool and
// returns its text. The variant's counter is incremented once per attempt;
// attempts that collide with an existing code are retried.
func (p *Pool) GenerateOne(v accesscode.Variant, src LetterSource) (string, error) {
	if !v.Valid() {
		return "", fmt.Errorf("%w: %s", accesscode.ErrUnknownVariant, v)
	}

	var candidate string
	for {
		n, err := p.counters.next(v)
		if err != nil {
			return "", err
		}
		candidate, err = accesscode.Synthesize(v, n, drawLetters(src))
		if err != nil {
			return "", err
		}
		if !p.Contains(candidate) {
			break
		}
	}

	code, err := accesscode.New(v, candidate)
	if err != nil {
		// Synthesize always yields a valid code; reaching here is a bug.
		return "", fmt.Errorf("synthesized invalid code %q: %w", candidate, err)
	}
	p.Append(code)
	return candidate, nil
}

// GenerateMany calls GenerateOne count times and returns the new codes in
// generation order. A non-positive count generates nothing.
func (p *Pool) GenerateMany(count int, v accesscode.Variant, src LetterSource) ([]string, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %s", accesscode.ErrUnknownVariant, v)
	}
	if count <= 0 {
		return []string{}, nil
	}

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		code, err := p.GenerateOne(v, src)
		if err != nil {
			return out, err
		}
		out = append(out, code)
	}
	return out, nil
}
