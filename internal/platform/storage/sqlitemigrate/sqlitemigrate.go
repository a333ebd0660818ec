// Package sqlitemigrate applies embedded SQL migrations to a sqlite database
// at most once per file.
package sqlitemigrate

import (
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const ledgerTable = "schema_migrations"

const (
	upMarker   = "-- +migrate Up"
	downMarker = "-- +migrate Down"
)

// ApplyMigrations runs every .sql file found in migrationFS under root, in
// lexical order, skipping files already recorded in the schema_migrations
// ledger. Each migration's up section runs inside its own transaction.
func ApplyMigrations(sqlDB *sql.DB, migrationFS fs.FS, root string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}

	files, err := fs.Glob(migrationFS, path.Join(strings.TrimSpace(root), "*.sql"))
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	if err := ensureLedger(sqlDB); err != nil {
		return err
	}

	for _, file := range files {
		applied, err := isApplied(sqlDB, file)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", file, err)
		}
		if applied {
			continue
		}

		content, err := fs.ReadFile(migrationFS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		if err := applyOne(sqlDB, file, string(content)); err != nil {
			return err
		}
	}
	return nil
}

func ensureLedger(sqlDB *sql.DB) error {
	_, err := sqlDB.Exec(fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, ledgerTable))
	if err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}
	return nil
}

func applyOne(sqlDB *sql.DB, name, content string) error {
	upSQL := UpSection(content)
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := sqlDB.Begin()
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", name, err)
	}
	if _, err := tx.Exec(upSQL); err != nil && !isAlreadyApplied(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", name, err)
	}
	if _, err := tx.Exec(
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", ledgerTable),
		name,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", name, err)
	}
	return nil
}

// UpSection returns the SQL between the up and down markers. Content without
// markers is treated as up-only.
func UpSection(content string) string {
	upIdx := strings.Index(content, upMarker)
	if upIdx == -1 {
		return content
	}
	rest := content[upIdx+len(upMarker):]
	if downIdx := strings.Index(rest, downMarker); downIdx != -1 {
		rest = rest[:downIdx]
	}
	return rest
}

// isAlreadyApplied reports whether a DDL error means the migration's effect
// is already in place, which happens when a ledger row was lost.
func isAlreadyApplied(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRow("SELECT 1 FROM "+ledgerTable+" WHERE name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
