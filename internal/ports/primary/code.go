// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"
	"time"

	"github.com/example/gatepass/internal/core/accesscode"
	"github.com/example/gatepass/internal/core/codepool"
)

// CodeService defines the primary port for access-code pool operations.
// A CodeService owns one pool for one session and is not safe for concurrent use.
type CodeService interface {
	// Load replaces the pool with the contents of the store at path.
	// Malformed lines are returned as diagnostics, not errors.
	Load(ctx context.Context, path string) ([]codepool.Diagnostic, error)

	// FindAvailable returns the first unused code of a variant, or nil.
	FindAvailable(variant accesscode.Variant) *accesscode.AccessCode

	// GenerateMany mints count new codes of a variant and returns their text.
	GenerateMany(ctx context.Context, count int, variant accesscode.Variant) ([]string, error)

	// Save writes the pool and counters to the store at path.
	Save(ctx context.Context, path string) error

	// ListAll returns a read-only snapshot of the pool in pool order.
	ListAll() []*accesscode.AccessCode

	// Counters returns the current generation counters.
	Counters() codepool.Counters

	// Stats returns per-variant totals for the pool.
	Stats() []codepool.Stats

	// Issue hands out one code of a variant: finds an available code,
	// generating a batch first if none is left, marks it used and saves.
	Issue(ctx context.Context, variant accesscode.Variant) (*IssueResult, error)

	// History lists usage ledger entries.
	History(ctx context.Context, filters HistoryFilters) ([]*LedgerEntry, error)
}

// IssueResult contains the outcome of issuing a code.
type IssueResult struct {
	Code      string
	Variant   accesscode.Variant
	Generated []string // codes minted because the variant had run out
}

// HistoryFilters contains filter options for listing ledger entries.
type HistoryFilters struct {
	Code    string
	Variant string
	Action  string
	Limit   int
}

// LedgerEntry represents a usage ledger entry at the port boundary.
type LedgerEntry struct {
	ID        string
	Code      string
	Variant   string
	Action    string
	Operator  string
	SessionID string
	CreatedAt time.Time
}
