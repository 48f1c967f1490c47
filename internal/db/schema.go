package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the version written to schema_version by InitSchema.
const SchemaVersion = 1

// SchemaSQL is the complete schema for the usage ledger.
//
// This is the single source of truth for the ledger schema. Tests open
// databases through Open or GetSchemaSQL instead of hardcoding CREATE TABLE
// statements.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per event that happened to an access code
CREATE TABLE IF NOT EXISTS code_ledger (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL,
	variant TEXT NOT NULL CHECK(variant IN ('visitor', 'contractor')),
	action TEXT NOT NULL CHECK(action IN ('generated', 'issued')),
	operator TEXT,
	session_id TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_code_ledger_code ON code_ledger(code);
CREATE INDEX IF NOT EXISTS idx_code_ledger_created_at ON code_ledger(created_at);
`

// GetSchemaSQL returns the authoritative ledger schema.
func GetSchemaSQL() string {
	return SchemaSQL
}

// InitSchema creates the ledger tables if missing and records the schema version.
func InitSchema(db *sql.DB) error {
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}

	var current sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&current); err != nil {
		return err
	}
	if current.Valid && current.Int64 > SchemaVersion {
		return fmt.Errorf("ledger schema version %d is newer than supported version %d", current.Int64, SchemaVersion)
	}
	if !current.Valid {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return err
		}
	}
	return nil
}
