// Package storage defines the persistence boundary for checklist records and
// submitted photo blobs. Implementations live in subpackages.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/examops/checkbot/internal/checklist/domain"
)

var (
	// ErrNotFound indicates a checklist record, item, or photo was not found.
	ErrNotFound = errors.New("checklist record not found")
	// ErrConflict indicates a write conflicted with an existing record.
	ErrConflict = errors.New("checklist record conflict")
)

// Store is the persistence contract for checklist records. Every item write
// is a partial update: only the named item's fields change, never the whole
// record.
type Store interface {
	// CreateRecord creates one (session, day) record with every item missing.
	// Returns ErrConflict when the record already exists.
	CreateRecord(ctx context.Context, sessionID string, day domain.Day, itemKeys []string, startedAt time.Time) error
	// RecordExists reports record existence without loading item fields.
	RecordExists(ctx context.Context, sessionID string, day domain.Day) (bool, error)
	// GetRecord loads one record with items in template order.
	GetRecord(ctx context.Context, sessionID string, day domain.Day) (domain.Record, error)
	// ConfirmItem marks one item present; photoRef is stored when non-empty.
	ConfirmItem(ctx context.Context, sessionID string, day domain.Day, itemKey string, photoRef string) error
	// SetItemNote updates one item's free-text note.
	SetItemNote(ctx context.Context, sessionID string, day domain.Day, itemKey string, note string) error
	// SetStatus transitions the record lifecycle status.
	SetStatus(ctx context.Context, sessionID string, day domain.Day, status domain.Status, completedAt *time.Time) error
	// ResetRecord clears every item back to missing and the status to started.
	ResetRecord(ctx context.Context, sessionID string, day domain.Day) error
}

// Photo is one submitted photograph stored as an opaque blob.
type Photo struct {
	ID        string
	SessionID string
	ItemKey   string
	FileName  string
	Content   []byte
	CreatedAt time.Time
}

// PhotoStore is a key-value put/get boundary over submitted photo blobs.
type PhotoStore interface {
	PutPhoto(ctx context.Context, photo Photo) error
	GetPhoto(ctx context.Context, id string) (Photo, error)
}
