// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/gatepass/internal/core/accesscode"
	"github.com/example/gatepass/internal/ports/primary"
)

var (
	usedLabel      = color.New(color.FgRed).SprintFunc()
	availableLabel = color.New(color.FgGreen).SprintFunc()
	warnLabel      = color.New(color.FgYellow).SprintFunc()
	headerLabel    = color.New(color.Bold).SprintFunc()
)

// CodeAdapter is a thin adapter that translates CLI operations to CodeService calls.
// It depends only on the CodeService interface, enabling easy testing with mocks.
type CodeAdapter struct {
	service primary.CodeService
	out     io.Writer
}

// NewCodeAdapter creates a new CodeAdapter with the given service.
func NewCodeAdapter(service primary.CodeService, out io.Writer) *CodeAdapter {
	return &CodeAdapter{
		service: service,
		out:     out,
	}
}

// Load loads the store at path and reports skipped lines.
func (a *CodeAdapter) Load(ctx context.Context, path string) error {
	diags, err := a.service.Load(ctx, path)
	if err != nil {
		return err
	}

	for _, d := range diags {
		fmt.Fprintf(a.out, "%s %s\n", warnLabel("⚠"), d)
	}
	counters := a.service.Counters()
	fmt.Fprintf(a.out, "Loaded %d codes from %s (counters: VIS=%d, TER=%d)\n",
		len(a.service.ListAll()), path, counters.Visitor, counters.Contractor)
	return nil
}

// Issue hands out one code of the named variant.
func (a *CodeAdapter) Issue(ctx context.Context, variantName string) error {
	variant, err := accesscode.ParseVariant(variantName)
	if err != nil {
		return err
	}

	result, err := a.service.Issue(ctx, variant)
	if result != nil && len(result.Generated) > 0 {
		fmt.Fprintf(a.out, "%s No %s code available. Generated %d new codes.\n",
			warnLabel("⚠"), variant, len(result.Generated))
	}
	if result != nil && result.Code != "" {
		fmt.Fprintf(a.out, "✓ %s code issued: %s\n", titleCase(variant.String()), result.Code)
	}
	if err != nil {
		return fmt.Errorf("failed to issue %s code: %w", variant, err)
	}
	return nil
}

// List prints every code in pool order with its status.
func (a *CodeAdapter) List(ctx context.Context) error {
	codes := a.service.ListAll()
	if len(codes) == 0 {
		fmt.Fprintln(a.out, "No codes found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-16s %-12s %s\n", headerLabel("CODE"), headerLabel("TYPE"), headerLabel("STATUS"))
	fmt.Fprintln(a.out, "────────────────────────────────────────────")
	for _, c := range codes {
		fmt.Fprintf(a.out, "%-16s %-12s %s\n", c.Code(), c.Variant(), statusLabel(c))
	}
	fmt.Fprintln(a.out, "────────────────────────────────────────────")
	for _, s := range a.service.Stats() {
		fmt.Fprintf(a.out, "%s: %d total, %d available\n", titleCase(s.Variant.String()), s.Total, s.Available)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Generate mints count codes of the named variant and saves the store.
func (a *CodeAdapter) Generate(ctx context.Context, count int, variantName, path string) error {
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	variant, err := accesscode.ParseVariant(variantName)
	if err != nil {
		return err
	}

	codes, err := a.service.GenerateMany(ctx, count, variant)
	if err != nil {
		return err
	}
	for _, c := range codes {
		fmt.Fprintf(a.out, "✓ Generated %s code %s\n", variant, c)
	}

	if err := a.service.Save(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d codes to %s\n", len(a.service.ListAll()), path)
	return nil
}

// Save writes the pool to path.
func (a *CodeAdapter) Save(ctx context.Context, path string) error {
	if err := a.service.Save(ctx, path); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d codes to %s\n", len(a.service.ListAll()), path)
	return nil
}

// Validate checks a code string typed by the user.
func (a *CodeAdapter) Validate(code string) error {
	c, err := accesscode.Parse(strings.TrimSpace(code))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ %s is a valid %s code\n", c.Code(), c.Variant())
	return nil
}

// History prints usage ledger entries, newest first.
func (a *CodeAdapter) History(ctx context.Context, filters primary.HistoryFilters) error {
	entries, err := a.service.History(ctx, filters)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No history found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-16s %-10s %s\n", "TIME", "CODE", "ACTION", "OPERATOR")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		operator := e.Operator
		if operator == "" {
			operator = "-"
		}
		fmt.Fprintf(a.out, "%-20s %-16s %-10s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Code, e.Action, operator)
	}
	fmt.Fprintln(a.out)

	return nil
}

func statusLabel(c *accesscode.AccessCode) string {
	if c.Used() {
		return usedLabel("USED")
	}
	return availableLabel("AVAILABLE")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
