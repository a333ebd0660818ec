package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/examops/checkbot/internal/checklist/domain"
	"github.com/examops/checkbot/internal/checklist/storage"
	"github.com/examops/checkbot/internal/checklist/storage/sqlite/migrations"
	"github.com/examops/checkbot/internal/platform/storage/sqlitemigrate"
)

// Store provides SQLite-backed persistence for checklist records and photos.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a checklist SQLite store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_pragma=foreign_keys(ON)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB}
	if err := store.runMigrations(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close closes the underlying SQLite database.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) runMigrations() error {
	return sqlitemigrate.ApplyMigrations(s.sqlDB, migrations.FS, "")
}

// CreateRecord creates one checklist row plus one item row per template key,
// all items missing. Returns storage.ErrConflict when the record exists.
func (s *Store) CreateRecord(ctx context.Context, sessionID string, day domain.Day, itemKeys []string, startedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if len(itemKeys) == 0 {
		return fmt.Errorf("item keys are required")
	}
	if startedAt.IsZero() {
		return fmt.Errorf("started_at is required")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checklist create: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback checklist create: %v", cause, rollbackErr)
		}
		return cause
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO checklists (session_id, day, status, started_at, completed_at)
VALUES (?, ?, ?, ?, NULL)
`, sessionID, int(day), string(domain.StatusStarted), toMillis(startedAt)); err != nil {
		if isUniqueConstraintError(err) {
			return rollbackWith(storage.ErrConflict)
		}
		return rollbackWith(fmt.Errorf("insert checklist: %w", err))
	}

	for position, key := range itemKeys {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO checklist_items (session_id, day, item_key, position, present, photo_ref, note)
VALUES (?, ?, ?, ?, 0, '', '')
`, sessionID, int(day), key, position); err != nil {
			return rollbackWith(fmt.Errorf("insert checklist item %s: %w", key, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checklist create: %w", err)
	}
	return nil
}

// RecordExists reports record existence without loading item fields.
func (s *Store) RecordExists(ctx context.Context, sessionID string, day domain.Day) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}

	var found int
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT 1 FROM checklists WHERE session_id = ? AND day = ?
`, strings.TrimSpace(sessionID), int(day)).Scan(&found)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check checklist exists: %w", err)
	}
	return true, nil
}

// GetRecord loads one checklist record with items in template order.
func (s *Store) GetRecord(ctx context.Context, sessionID string, day domain.Day) (domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return domain.Record{}, err
	}
	if s == nil || s.sqlDB == nil {
		return domain.Record{}, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)

	record := domain.Record{SessionID: sessionID, Day: day}
	var status string
	var startedAt int64
	var completedAt sql.NullInt64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT status, started_at, completed_at
FROM checklists
WHERE session_id = ? AND day = ?
`, sessionID, int(day)).Scan(&status, &startedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Record{}, storage.ErrNotFound
		}
		return domain.Record{}, fmt.Errorf("get checklist: %w", err)
	}
	record.Status = domain.Status(status)
	record.StartedAt = fromMillis(startedAt)
	if completedAt.Valid {
		value := fromMillis(completedAt.Int64)
		record.CompletedAt = &value
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT item_key, present, photo_ref, note
FROM checklist_items
WHERE session_id = ? AND day = ?
ORDER BY position ASC
`, sessionID, int(day))
	if err != nil {
		return domain.Record{}, fmt.Errorf("list checklist items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.ItemState
		var present sql.NullInt64
		if err := rows.Scan(&item.Key, &present, &item.PhotoRef, &item.Note); err != nil {
			return domain.Record{}, fmt.Errorf("scan checklist item: %w", err)
		}
		item.Presence = presenceFromColumn(present)
		record.Items = append(record.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Record{}, fmt.Errorf("iterate checklist items: %w", err)
	}
	return record, nil
}

// ConfirmItem marks one item present. A non-empty photoRef replaces the
// stored reference; an empty photoRef leaves it untouched so free-text
// confirmation never erases photographic evidence.
func (s *Store) ConfirmItem(ctx context.Context, sessionID string, day domain.Day, itemKey string, photoRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	itemKey = strings.TrimSpace(itemKey)
	if itemKey == "" {
		return fmt.Errorf("item key is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE checklist_items
SET present = 1,
    photo_ref = CASE WHEN ? = '' THEN photo_ref ELSE ? END
WHERE session_id = ? AND day = ? AND item_key = ?
`, photoRef, photoRef, strings.TrimSpace(sessionID), int(day), itemKey)
	if err != nil {
		return fmt.Errorf("confirm checklist item: %w", err)
	}
	return requireRowAffected(result, "confirm checklist item")
}

// SetItemNote updates one item's free-text note.
func (s *Store) SetItemNote(ctx context.Context, sessionID string, day domain.Day, itemKey string, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	itemKey = strings.TrimSpace(itemKey)
	if itemKey == "" {
		return fmt.Errorf("item key is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE checklist_items
SET note = ?
WHERE session_id = ? AND day = ? AND item_key = ?
`, strings.TrimSpace(note), strings.TrimSpace(sessionID), int(day), itemKey)
	if err != nil {
		return fmt.Errorf("set checklist item note: %w", err)
	}
	return requireRowAffected(result, "set checklist item note")
}

// SetStatus transitions the record lifecycle status.
func (s *Store) SetStatus(ctx context.Context, sessionID string, day domain.Day, status domain.Status, completedAt *time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}

	var completedAtCol sql.NullInt64
	if completedAt != nil {
		completedAtCol = sql.NullInt64{Int64: toMillis(*completedAt), Valid: true}
	}
	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE checklists
SET status = ?, completed_at = ?
WHERE session_id = ? AND day = ?
`, string(status), completedAtCol, strings.TrimSpace(sessionID), int(day))
	if err != nil {
		return fmt.Errorf("set checklist status: %w", err)
	}
	return requireRowAffected(result, "set checklist status")
}

// ResetRecord clears every item back to missing and the status to started.
func (s *Store) ResetRecord(ctx context.Context, sessionID string, day domain.Day) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin checklist reset: %w", err)
	}
	rollbackWith := func(cause error) error {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w: rollback checklist reset: %v", cause, rollbackErr)
		}
		return cause
	}

	result, err := tx.ExecContext(ctx, `
UPDATE checklists
SET status = ?, completed_at = NULL
WHERE session_id = ? AND day = ?
`, string(domain.StatusStarted), sessionID, int(day))
	if err != nil {
		return rollbackWith(fmt.Errorf("reset checklist status: %w", err))
	}
	if err := requireRowAffected(result, "reset checklist status"); err != nil {
		return rollbackWith(err)
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE checklist_items
SET present = 0, photo_ref = '', note = ''
WHERE session_id = ? AND day = ?
`, sessionID, int(day)); err != nil {
		return rollbackWith(fmt.Errorf("reset checklist items: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit checklist reset: %w", err)
	}
	return nil
}

func requireRowAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func presenceFromColumn(value sql.NullInt64) domain.Presence {
	switch {
	case !value.Valid:
		return domain.PresenceUnknown
	case value.Int64 == 0:
		return domain.PresenceMissing
	default:
		return domain.PresenceConfirmed
	}
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "unique constraint failed")
}
