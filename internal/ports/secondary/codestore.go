// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrStoreIO marks a read or write failure of the underlying code store.
// A missing store is not an error; CodeStore.ReadLines creates it.
var ErrStoreIO = errors.New("code store I/O failure")

// CodeStore defines the secondary port for the line-oriented code store.
type CodeStore interface {
	// ReadLines returns every line of the store at path, without line terminators.
	// A store that does not exist is created empty (parent directories included)
	// and reported through StoreContents.Created.
	ReadLines(ctx context.Context, path string) (*StoreContents, error)

	// WriteLines replaces the store at path with lines, one per line.
	WriteLines(ctx context.Context, path string, lines []string) error
}

// StoreContents is the result of reading a code store.
type StoreContents struct {
	Lines   []string
	Created bool
}

// UsageLedger defines the secondary port for the code usage audit trail.
// The ledger records what happened to codes; it never feeds back into the pool.
type UsageLedger interface {
	// Record appends an entry to the ledger.
	Record(ctx context.Context, record *LedgerRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters LedgerFilters) ([]*LedgerRecord, error)
}

// LedgerAction names what happened to a code.
type LedgerAction string

const (
	// LedgerActionGenerated records a freshly minted code.
	LedgerActionGenerated LedgerAction = "generated"
	// LedgerActionIssued records a code handed out and marked used.
	LedgerActionIssued LedgerAction = "issued"
)

// LedgerRecord represents a ledger entry as stored in persistence.
type LedgerRecord struct {
	ID        string
	Code      string
	Variant   string
	Action    LedgerAction
	Operator  string
	SessionID string
	CreatedAt time.Time
}

// LedgerFilters contains filter options for querying the ledger.
type LedgerFilters struct {
	Code    string
	Variant string
	Action  LedgerAction
	Limit   int
}
