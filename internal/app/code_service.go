package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/gatepass/internal/core/accesscode"
	"github.com/example/gatepass/internal/core/codepool"
	"github.com/example/gatepass/internal/ctxutil"
	"github.com/example/gatepass/internal/logger"
	"github.com/example/gatepass/internal/ports/primary"
	"github.com/example/gatepass/internal/ports/secondary"
)

// DefaultBatchSize is how many codes Issue generates when a variant runs out.
const DefaultBatchSize = 5

// ErrNotLoaded is returned by Issue when no store has been loaded yet.
var ErrNotLoaded = errors.New("no code store loaded")

// CodeServiceOptions tunes a CodeServiceImpl.
type CodeServiceOptions struct {
	BatchSize int                   // codes generated by Issue on exhaustion; DefaultBatchSize if <= 0
	Letters   codepool.LetterSource // letter randomness; codepool.DefaultLetterSource if nil
	Now       func() time.Time      // ledger clock; time.Now if nil
}

// CodeServiceImpl implements the CodeService interface.
// It owns a single pool for the lifetime of the session.
type CodeServiceImpl struct {
	store     secondary.CodeStore
	ledger    secondary.UsageLedger
	pool      *codepool.Pool
	letters   codepool.LetterSource
	batchSize int
	now       func() time.Time
	sessionID string
	path      string
}

// NewCodeService creates a new CodeService with injected dependencies.
// ledger may be nil, in which case no usage history is kept.
func NewCodeService(store secondary.CodeStore, ledger secondary.UsageLedger, opts CodeServiceOptions) *CodeServiceImpl {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.Letters == nil {
		opts.Letters = codepool.DefaultLetterSource
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CodeServiceImpl{
		store:     store,
		ledger:    ledger,
		pool:      codepool.New(),
		letters:   opts.Letters,
		batchSize: opts.BatchSize,
		now:       opts.Now,
		sessionID: uuid.NewString(),
	}
}

// SessionID returns the ID stamped on every ledger entry of this session.
func (s *CodeServiceImpl) SessionID() string {
	return s.sessionID
}

// Load replaces the pool with the contents of the store at path.
func (s *CodeServiceImpl) Load(ctx context.Context, path string) ([]codepool.Diagnostic, error) {
	contents, err := s.store.ReadLines(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load codes: %w", err)
	}
	s.path = path

	log := logger.WithContext(s.ctx(ctx))
	if contents.Created {
		log.Info("code store not found, created empty store", "path", path)
	}

	diags := s.pool.LoadLines(contents.Lines)
	for _, d := range diags {
		log.Warn("store line ignored", "line", d.Line, "text", d.Text, "kind", d.Kind, "reason", d.Reason)
	}

	counters := s.pool.Counters()
	log.Info("codes loaded",
		"path", path,
		"codes", s.pool.Len(),
		"visitor_counter", counters.Visitor,
		"contractor_counter", counters.Contractor,
	)
	return diags, nil
}

// FindAvailable returns the first unused code of variant, or nil.
func (s *CodeServiceImpl) FindAvailable(variant accesscode.Variant) *accesscode.AccessCode {
	return s.pool.FindAvailable(variant)
}

// GenerateMany mints count new codes of variant and appends them to the pool.
// Codes minted before a failure stay in the pool.
func (s *CodeServiceImpl) GenerateMany(ctx context.Context, count int, variant accesscode.Variant) ([]string, error) {
	codes, err := s.pool.GenerateMany(count, variant, s.letters)
	if err != nil {
		return codes, fmt.Errorf("failed to generate codes: %w", err)
	}

	ctx = s.ctx(ctx)
	for _, code := range codes {
		logger.DebugContext(ctx, "generated code", "code", code, "variant", variant)
		s.record(ctx, code, variant, secondary.LedgerActionGenerated)
	}
	return codes, nil
}

// Save writes the pool and counters to the store at path.
func (s *CodeServiceImpl) Save(ctx context.Context, path string) error {
	if err := s.store.WriteLines(ctx, path, s.pool.Lines()); err != nil {
		return fmt.Errorf("failed to save codes: %w", err)
	}
	logger.InfoContext(s.ctx(ctx), "codes saved", "path", path, "codes", s.pool.Len())
	return nil
}

// ListAll returns a snapshot of the pool in pool order.
func (s *CodeServiceImpl) ListAll() []*accesscode.AccessCode {
	return s.pool.All()
}

// Counters returns the current generation counters.
func (s *CodeServiceImpl) Counters() codepool.Counters {
	return s.pool.Counters()
}

// Stats returns per-variant totals for the pool.
func (s *CodeServiceImpl) Stats() []codepool.Stats {
	return s.pool.Stats()
}

// Issue hands out one code of variant and persists the pool.
func (s *CodeServiceImpl) Issue(ctx context.Context, variant accesscode.Variant) (*primary.IssueResult, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: %s", accesscode.ErrUnknownVariant, variant)
	}
	if s.path == "" {
		return nil, ErrNotLoaded
	}

	result := &primary.IssueResult{Variant: variant}

	code := s.pool.FindAvailable(variant)
	if code == nil {
		logger.InfoContext(s.ctx(ctx), "no code available, generating batch", "variant", variant, "count", s.batchSize)
		generated, err := s.GenerateMany(ctx, s.batchSize, variant)
		if err != nil {
			return nil, err
		}
		result.Generated = generated
		code = s.pool.FindAvailable(variant)
	}
	if code == nil {
		return nil, fmt.Errorf("no %s code available after generating %d", variant, s.batchSize)
	}

	code.MarkUsed()
	result.Code = code.Code()
	s.record(s.ctx(ctx), code.Code(), variant, secondary.LedgerActionIssued)
	logger.InfoContext(s.ctx(ctx), "code issued", "code", code.Code(), "variant", variant)

	if err := s.Save(ctx, s.path); err != nil {
		return result, err
	}
	return result, nil
}

// History lists usage ledger entries, newest first.
func (s *CodeServiceImpl) History(ctx context.Context, filters primary.HistoryFilters) ([]*primary.LedgerEntry, error) {
	if s.ledger == nil {
		return []*primary.LedgerEntry{}, nil
	}

	records, err := s.ledger.List(ctx, secondary.LedgerFilters{
		Code:    filters.Code,
		Variant: filters.Variant,
		Action:  secondary.LedgerAction(filters.Action),
		Limit:   filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	entries := make([]*primary.LedgerEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToEntry(r)
	}
	return entries, nil
}

// record writes a ledger entry. The text store is the source of truth, so a
// ledger failure is logged and never fails the calling operation.
func (s *CodeServiceImpl) record(ctx context.Context, code string, variant accesscode.Variant, action secondary.LedgerAction) {
	if s.ledger == nil {
		return
	}
	err := s.ledger.Record(ctx, &secondary.LedgerRecord{
		ID:        uuid.NewString(),
		Code:      code,
		Variant:   variant.String(),
		Action:    action,
		Operator:  ctxutil.OperatorFromContext(ctx),
		SessionID: s.sessionID,
		CreatedAt: s.now(),
	})
	if err != nil {
		logger.WarnContext(ctx, "failed to record ledger entry", "code", code, "action", action, "error", err)
	}
}

// ctx stamps the session ID onto ctx for logging.
func (s *CodeServiceImpl) ctx(ctx context.Context) context.Context {
	if ctxutil.SessionFromContext(ctx) != "" {
		return ctx
	}
	return ctxutil.WithSessionID(ctx, s.sessionID)
}

func (s *CodeServiceImpl) recordToEntry(r *secondary.LedgerRecord) *primary.LedgerEntry {
	return &primary.LedgerEntry{
		ID:        r.ID,
		Code:      r.Code,
		Variant:   r.Variant,
		Action:    string(r.Action),
		Operator:  r.Operator,
		SessionID: r.SessionID,
		CreatedAt: r.CreatedAt,
	}
}

var _ primary.CodeService = (*CodeServiceImpl)(nil)
