// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/gatepass/internal/ports/secondary"
)

// LedgerRepository implements secondary.UsageLedger with SQLite.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Record persists a new ledger entry.
func (r *LedgerRepository) Record(ctx context.Context, record *secondary.LedgerRecord) error {
	var operator sql.NullString
	if record.Operator != "" {
		operator = sql.NullString{String: record.Operator, Valid: true}
	}

	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO code_ledger (id, code, variant, action, operator, session_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Code, record.Variant, string(record.Action), operator, record.SessionID, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	return nil
}

// List retrieves ledger entries matching the given filters, newest first.
func (r *LedgerRepository) List(ctx context.Context, filters secondary.LedgerFilters) ([]*secondary.LedgerRecord, error) {
	query := "SELECT id, code, variant, action, operator, session_id, created_at FROM code_ledger"

	var (
		conditions []string
		args       []any
	)
	if filters.Code != "" {
		conditions = append(conditions, "code = ?")
		args = append(args, filters.Code)
	}
	if filters.Variant != "" {
		conditions = append(conditions, "variant = ?")
		args = append(args, filters.Variant)
	}
	if filters.Action != "" {
		conditions = append(conditions, "action = ?")
		args = append(args, string(filters.Action))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var records []*secondary.LedgerRecord
	for rows.Next() {
		var (
			operator  sql.NullString
			action    string
			createdAt time.Time
		)
		record := &secondary.LedgerRecord{}
		if err := rows.Scan(&record.ID, &record.Code, &record.Variant, &action, &operator, &record.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		record.Action = secondary.LedgerAction(action)
		record.Operator = operator.String
		record.CreatedAt = createdAt
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return records, nil
}

var _ secondary.UsageLedger = (*LedgerRepository)(nil)
