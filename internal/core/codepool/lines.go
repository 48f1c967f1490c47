package codepool

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/gatepass/internal/core/accesscode"
)

// Counter line keys in the persisted store.
const (
	VisitorCounterKey    = "#COUNTER_VISITOR="
	ContractorCounterKey = "#COUNTER_CONTRACTOR="
)

// DiagnosticKind classifies a note produced while reading the store.
type DiagnosticKind string

const (
	// DiagnosticInvalidCode marks a line with a known prefix that failed validation.
	DiagnosticInvalidCode DiagnosticKind = "invalid-code"
	// DiagnosticUnknownLine marks a line matching neither prefix nor counter key.
	DiagnosticUnknownLine DiagnosticKind = "unknown-line"
	// DiagnosticBadCounter marks a counter line whose value is not an integer in [0, MaxCounter].
	DiagnosticBadCounter DiagnosticKind = "bad-counter"
	// DiagnosticDuplicate marks a code already present earlier in the store.
	// The duplicate is still kept in the pool.
	DiagnosticDuplicate DiagnosticKind = "duplicate"
)

// Diagnostic is a non-fatal note about one store line.
type Diagnostic struct {
	Line   int // 1-based
	Text   string
	Kind   DiagnosticKind
	Reason string
}

// Skipped reports whether the line was left out of the pool.
func (d Diagnostic) Skipped() bool {
	return d.Kind != DiagnosticDuplicate
}

func (d Diagnostic) String() string {
	action := "skipped"
	if !d.Skipped() {
		action = "kept"
	}
	return fmt.Sprintf("line %d %s (%s): %q: %s", d.Line, action, d.Kind, d.Text, d.Reason)
}

// LoadLines resets the pool and rebuilds it from persisted store lines.
// Malformed lines never fail the load; they are returned as diagnostics.
func (p *Pool) LoadLines(lines []string) []Diagnostic {
	p.Reset()

	var diags []Diagnostic
	note := func(i int, line string, kind DiagnosticKind, reason string) {
		diags = append(diags, Diagnostic{Line: i + 1, Text: line, Kind: kind, Reason: reason})
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if value, ok := strings.CutPrefix(line, VisitorCounterKey); ok {
			n, err := parseCounter(value)
			if err != nil {
				note(i, line, DiagnosticBadCounter, err.Error())
				continue
			}
			p.counters.Visitor = n
			continue
		}
		if value, ok := strings.CutPrefix(line, ContractorCounterKey); ok {
			n, err := parseCounter(value)
			if err != nil {
				note(i, line, DiagnosticBadCounter, err.Error())
				continue
			}
			p.counters.Contractor = n
			continue
		}

		code, err := accesscode.Parse(line)
		if errors.Is(err, accesscode.ErrUnknownVariant) {
			note(i, line, DiagnosticUnknownLine, "unknown prefix")
			continue
		}
		if err != nil {
			note(i, line, DiagnosticInvalidCode, err.Error())
			continue
		}

		if p.Contains(code.Code()) {
			note(i, line, DiagnosticDuplicate, "code already loaded from an earlier line")
		}
		p.Append(code)
	}

	return diags
}

// Lines renders the pool in store format: one code per line in pool order,
// then the visitor and contractor counter lines. Used flags are not written.
func (p *Pool) Lines() []string {
	out := make([]string, 0, len(p.codes)+2)
	for _, c := range p.codes {
		out = append(out, c.Code())
	}
	out = append(out,
		VisitorCounterKey+strconv.FormatUint(uint64(p.counters.Visitor), 10),
		ContractorCounterKey+strconv.FormatUint(uint64(p.counters.Contractor), 10),
	)
	return out
}

func parseCounter(value string) (uint, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("counter value %q is not a non-negative integer", value)
	}
	if n > MaxCounter {
		return 0, fmt.Errorf("counter value %q exceeds %d", value, MaxCounter)
	}
	return uint(n), nil
}
