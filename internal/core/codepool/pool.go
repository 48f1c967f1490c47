// Package codepool contains the in-memory code pool and the pure rules for
// reading, writing and growing it. No I/O happens here; randomness is injected.
package codepool

import (
	"errors"
	"fmt"
	"math"

	"github.com/example/gatepass/internal/core/accesscode"
)

// MaxCounter is the largest value a generation counter may hold.
const MaxCounter = math.MaxInt32

// ErrCounterExhausted is returned when a counter has reached MaxCounter.
var ErrCounterExhausted = errors.New("generation counter exhausted")

// Counters holds the per-variant generation counters.
type Counters struct {
	Visitor    uint
	Contractor uint
}

// Get returns the counter for v.
func (c Counters) Get(v accesscode.Variant) (uint, error) {
	switch v {
	case accesscode.Visitor:
		return c.Visitor, nil
	case accesscode.Contractor:
		return c.Contractor, nil
	default:
		return 0, fmt.Errorf("%w: %s", accesscode.ErrUnknownVariant, v)
	}
}

// next increments the counter for v and returns the new value.
// Counters never wrap; at MaxCounter it fails with ErrCounterExhausted.
func (c *Counters) next(v accesscode.Variant) (uint, error) {
	var n *uint
	switch v {
	case accesscode.Visitor:
		n = &c.Visitor
	case accesscode.Contractor:
		n = &c.Contractor
	default:
		return 0, fmt.Errorf("%w: %s", accesscode.ErrUnknownVariant, v)
	}
	if *n >= MaxCounter {
		return 0, fmt.Errorf("%w: %s counter is at %d", ErrCounterExhausted, v, *n)
	}
	*n++
	return *n, nil
}

// Pool is the ordered collection of codes known to the current session.
// Insertion order is load order followed by append order.
// A Pool is not safe for concurrent use.
type Pool struct {
	codes    []*accesscode.AccessCode
	counters Counters
}

// New returns an empty pool with zero counters.
func New() *Pool {
	return &Pool{}
}

// Reset clears all codes and zeroes both counters.
func (p *Pool) Reset() {
	p.codes = nil
	p.counters = Counters{}
}

// Append adds c to the end of the pool. Uniqueness is not checked here.
func (p *Pool) Append(c *accesscode.AccessCode) {
	p.codes = append(p.codes, c)
}

// Contains reports whether a code with exactly this text is in the pool.
func (p *Pool) Contains(code string) bool {
	for _, c := range p.codes {
		if c.Code() == code {
			return true
		}
	}
	return false
}

// FindAvailable returns the first unused code of variant v in pool order,
// or nil if none is left.
func (p *Pool) FindAvailable(v accesscode.Variant) *accesscode.AccessCode {
	for _, c := range p.codes {
		if c.Variant() == v && !c.Used() {
			return c
		}
	}
	return nil
}

// Lookup returns the code with exactly this text, or nil.
func (p *Pool) Lookup(code string) *accesscode.AccessCode {
	for _, c := range p.codes {
		if c.Code() == code {
			return c
		}
	}
	return nil
}

// All returns a copy of the pool's code slice in pool order.
// The codes themselves are shared with the pool.
func (p *Pool) All() []*accesscode.AccessCode {
	out := make([]*accesscode.AccessCode, len(p.codes))
	copy(out, p.codes)
	return out
}

// Len returns the number of codes in the pool.
func (p *Pool) Len() int { return len(p.codes) }

// Counters returns a copy of the current counters.
func (p *Pool) Counters() Counters { return p.counters }

// SetCounters overwrites both counters.
func (p *Pool) SetCounters(c Counters) { p.counters = c }

// Stats summarizes the pool per variant.
type Stats struct {
	Variant   accesscode.Variant
	Total     int
	Available int
}

// Stats returns totals and available counts for each variant in display order.
func (p *Pool) Stats() []Stats {
	out := make([]Stats, 0, 2)
	for _, v := range accesscode.Variants() {
		s := Stats{Variant: v}
		for _, c := range p.codes {
			if c.Variant() != v {
				continue
			}
			s.Total++
			if !c.Used() {
				s.Available++
			}
		}
		out = append(out, s)
	}
	return out
}
