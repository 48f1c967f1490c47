package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gatepass/internal/adapters/filesystem"
	"github.com/example/gatepass/internal/core/accesscode"
	"github.com/example/gatepass/internal/core/codepool"
	"github.com/example/gatepass/internal/ctxutil"
	"github.com/example/gatepass/internal/ports/primary"
	"github.com/example/gatepass/internal/ports/secondary"
)

// Ensure mocks implement the interfaces
var (
	_ secondary.CodeStore   = (*mockCodeStore)(nil)
	_ secondary.UsageLedger = (*mockUsageLedger)(nil)
)

// mockCodeStore implements secondary.CodeStore in memory.
type mockCodeStore struct {
	files    map[string][]string
	readErr  error
	writeErr error
	writes   int
}

func newMockCodeStore() *mockCodeStore {
	return &mockCodeStore{files: make(map[string][]string)}
}

func (m *mockCodeStore) ReadLines(ctx context.Context, path string) (*secondary.StoreContents, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	lines, ok := m.files[path]
	if !ok {
		m.files[path] = []string{}
		return &secondary.StoreContents{Lines: []string{}, Created: true}, nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return &secondary.StoreContents{Lines: out}, nil
}

func (m *mockCodeStore) WriteLines(ctx context.Context, path string, lines []string) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes++
	out := make([]string, len(lines))
	copy(out, lines)
	m.files[path] = out
	return nil
}

// mockUsageLedger implements secondary.UsageLedger in memory.
type mockUsageLedger struct {
	records   []*secondary.LedgerRecord
	recordErr error
}

func (m *mockUsageLedger) Record(ctx context.Context, record *secondary.LedgerRecord) error {
	if m.recordErr != nil {
		return m.recordErr
	}
	m.records = append(m.records, record)
	return nil
}

func (m *mockUsageLedger) List(ctx context.Context, filters secondary.LedgerFilters) ([]*secondary.LedgerRecord, error) {
	var out []*secondary.LedgerRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if filters.Code != "" && r.Code != filters.Code {
			continue
		}
		if filters.Action != "" && r.Action != filters.Action {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// sequenceSource returns letters in a fixed cycle.
type sequenceSource struct{ next int }

func (s *sequenceSource) IntN(n int) int {
	v := s.next % n
	s.next++
	return v
}

const storePath = "data/codes.txt"

func newTestCodeService(store *mockCodeStore, ledger *mockUsageLedger) *CodeServiceImpl {
	var l secondary.UsageLedger
	if ledger != nil {
		l = ledger
	}
	return NewCodeService(store, l, CodeServiceOptions{
		BatchSize: 3,
		Letters:   &sequenceSource{},
		Now:       func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
}

func TestCodeService_Load_MissingStoreStartsEmpty(t *testing.T) {
	store := newMockCodeStore()
	svc := newTestCodeService(store, nil)

	diags, err := svc.Load(context.Background(), storePath)
	require.NoError(t, err)

	assert.Empty(t, diags)
	assert.Empty(t, svc.ListAll())
	assert.Zero(t, svc.Counters().Visitor)
	assert.Zero(t, svc.Counters().Contractor)
	assert.Contains(t, store.files, storePath, "missing store must be created")
}

func TestCodeService_Load_SkipsBadChecksum(t *testing.T) {
	store := newMockCodeStore()
	store.files[storePath] = []string{"VIS-ABC1000-1", "TER-100-XYZ-5"}
	svc := newTestCodeService(store, nil)

	diags, err := svc.Load(context.Background(), storePath)
	require.NoError(t, err)

	all := svc.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, "VIS-ABC1000-1", all[0].Code())
	require.Len(t, diags, 1)
	assert.True(t, diags[0].Skipped())
	assert.Equal(t, "TER-100-XYZ-5", diags[0].Text)
}

func TestCodeService_Load_OversizedLineIsSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codes.txt")
	content := "VIS-ABC1000-1\n" + strings.Repeat("X", 70*1024) + "\n#COUNTER_VISITOR=3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	svc := NewCodeService(filesystem.NewCodeStore(), nil, CodeServiceOptions{})
	diags, err := svc.Load(context.Background(), path)
	require.NoError(t, err)

	all := svc.ListAll()
	require.Len(t, all, 1)
	assert.Equal(t, "VIS-ABC1000-1", all[0].Code())
	assert.Equal(t, uint(3), svc.Counters().Visitor)
	require.Len(t, diags, 1)
	assert.Equal(t, 2, diags[0].Line)
	assert.Equal(t, codepool.DiagnosticUnknownLine, diags[0].Kind)
}

func TestCodeService_Load_StoreError(t *testing.T) {
	store := newMockCodeStore()
	store.readErr = errors.Join(secondary.ErrStoreIO, fs.ErrPermission)
	svc := newTestCodeService(store, nil)

	_, err := svc.Load(context.Background(), storePath)
	require.Error(t, err)
	assert.ErrorIs(t, err, secondary.ErrStoreIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestCodeService_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newMockCodeStore()
	svc := newTestCodeService(store, nil)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	visitors, err := svc.GenerateMany(ctx, 4, accesscode.Visitor)
	require.NoError(t, err)
	contractors, err := svc.GenerateMany(ctx, 2, accesscode.Contractor)
	require.NoError(t, err)
	svc.FindAvailable(accesscode.Visitor).MarkUsed()
	before := svc.ListAll()
	counters := svc.Counters()

	require.NoError(t, svc.Save(ctx, storePath))

	reloaded := newTestCodeService(store, nil)
	diags, err := reloaded.Load(ctx, storePath)
	require.NoError(t, err)
	assert.Empty(t, diags)

	after := reloaded.ListAll()
	require.Len(t, after, len(visitors)+len(contractors))
	for i := range before {
		assert.Equal(t, before[i].Code(), after[i].Code(), "pool order must survive a round trip")
		assert.False(t, after[i].Used(), "used flags are not persisted")
	}
	assert.Equal(t, counters, reloaded.Counters())
}

func TestCodeService_GenerateMany_DistinctFromExisting(t *testing.T) {
	ctx := context.Background()
	store := newMockCodeStore()
	store.files[storePath] = []string{"VIS-ABC1001-2", "VIS-DEF1002-3", "#COUNTER_VISITOR=0"}
	svc := newTestCodeService(store, nil)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	codes, err := svc.GenerateMany(ctx, 10, accesscode.Visitor)
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := map[string]bool{"VIS-ABC1001-2": true, "VIS-DEF1002-3": true}
	for _, c := range codes {
		assert.False(t, seen[c], "code %s collides", c)
		seen[c] = true
	}
}

func TestCodeService_GenerateMany_UnknownVariant(t *testing.T) {
	svc := newTestCodeService(newMockCodeStore(), nil)

	codes, err := svc.GenerateMany(context.Background(), 2, accesscode.Variant(7))
	assert.ErrorIs(t, err, accesscode.ErrUnknownVariant)
	assert.Empty(t, codes)
	assert.Empty(t, svc.ListAll())
}

func TestCodeService_Issue(t *testing.T) {
	ctx := ctxutil.WithOperator(context.Background(), "front-desk")
	store := newMockCodeStore()
	store.files[storePath] = []string{"VIS-ABC1000-1", "TER-100-XYZ-7", "VIS-QRS4821-5"}
	ledger := &mockUsageLedger{}
	svc := newTestCodeService(store, ledger)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	first, err := svc.Issue(ctx, accesscode.Visitor)
	require.NoError(t, err)
	assert.Equal(t, "VIS-ABC1000-1", first.Code)
	assert.Empty(t, first.Generated)

	second, err := svc.Issue(ctx, accesscode.Visitor)
	require.NoError(t, err)
	assert.Equal(t, "VIS-QRS4821-5", second.Code)

	assert.Equal(t, 2, store.writes, "each issue saves the store")
	require.Len(t, ledger.records, 2)
	assert.Equal(t, secondary.LedgerActionIssued, ledger.records[0].Action)
	assert.Equal(t, "front-desk", ledger.records[0].Operator)
	assert.Equal(t, svc.SessionID(), ledger.records[0].SessionID)
	assert.Equal(t, "visitor", ledger.records[0].Variant)
}

func TestCodeService_Issue_GeneratesBatchWhenExhausted(t *testing.T) {
	ctx := context.Background()
	store := newMockCodeStore()
	ledger := &mockUsageLedger{}
	svc := newTestCodeService(store, ledger)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	result, err := svc.Issue(ctx, accesscode.Contractor)
	require.NoError(t, err)

	require.Len(t, result.Generated, 3)
	assert.Equal(t, result.Generated[0], result.Code, "first generated code is issued")
	assert.Equal(t, uint(3), svc.Counters().Contractor)

	available := 0
	for _, c := range svc.ListAll() {
		if !c.Used() {
			available++
		}
	}
	assert.Equal(t, 2, available)

	// 3 generated + 1 issued
	assert.Len(t, ledger.records, 4)

	saved := store.files[storePath]
	assert.Equal(t, "#COUNTER_CONTRACTOR=3", saved[len(saved)-1])
}

func TestCodeService_Issue_RequiresLoad(t *testing.T) {
	svc := newTestCodeService(newMockCodeStore(), nil)

	_, err := svc.Issue(context.Background(), accesscode.Visitor)
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestCodeService_Issue_UnknownVariant(t *testing.T) {
	svc := newTestCodeService(newMockCodeStore(), nil)
	_, err := svc.Load(context.Background(), storePath)
	require.NoError(t, err)

	_, err = svc.Issue(context.Background(), accesscode.Variant(0))
	assert.ErrorIs(t, err, accesscode.ErrUnknownVariant)
}

func TestCodeService_Issue_LedgerFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	store := newMockCodeStore()
	store.files[storePath] = []string{"VIS-ABC1000-1"}
	ledger := &mockUsageLedger{recordErr: errors.New("disk full")}
	svc := newTestCodeService(store, ledger)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	result, err := svc.Issue(ctx, accesscode.Visitor)
	require.NoError(t, err)
	assert.Equal(t, "VIS-ABC1000-1", result.Code)
}

func TestCodeService_Issue_SaveFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := newMockCodeStore()
	store.files[storePath] = []string{"VIS-ABC1000-1"}
	svc := newTestCodeService(store, nil)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	store.writeErr = secondary.ErrStoreIO
	result, err := svc.Issue(ctx, accesscode.Visitor)
	assert.ErrorIs(t, err, secondary.ErrStoreIO)
	require.NotNil(t, result)
	assert.Equal(t, "VIS-ABC1000-1", result.Code, "the code was still handed out")
}

func TestCodeService_History(t *testing.T) {
	ctx := context.Background()
	ledger := &mockUsageLedger{}
	svc := newTestCodeService(newMockCodeStore(), ledger)
	_, err := svc.Load(ctx, storePath)
	require.NoError(t, err)

	_, err = svc.Issue(ctx, accesscode.Visitor)
	require.NoError(t, err)

	entries, err := svc.History(ctx, primary.HistoryFilters{Action: "issued"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "issued", entries[0].Action)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), entries[0].CreatedAt)
}

func TestCodeService_History_NoLedger(t *testing.T) {
	svc := newTestCodeService(newMockCodeStore(), nil)

	entries, err := svc.History(context.Background(), primary.HistoryFilters{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
