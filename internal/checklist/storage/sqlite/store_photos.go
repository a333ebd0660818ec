package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/examops/checkbot/internal/checklist/storage"
)

// PutPhoto persists one submitted photo blob.
func (s *Store) PutPhoto(ctx context.Context, photo storage.Photo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	photo.ID = strings.TrimSpace(photo.ID)
	photo.SessionID = strings.TrimSpace(photo.SessionID)
	photo.ItemKey = strings.TrimSpace(photo.ItemKey)
	if photo.ID == "" {
		return fmt.Errorf("photo id is required")
	}
	if photo.SessionID == "" {
		return fmt.Errorf("session id is required")
	}
	if len(photo.Content) == 0 {
		return fmt.Errorf("photo content is required")
	}
	if photo.CreatedAt.IsZero() {
		return fmt.Errorf("created_at is required")
	}

	if _, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO photos (id, session_id, item_key, file_name, content, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	session_id = excluded.session_id,
	item_key = excluded.item_key,
	file_name = excluded.file_name,
	content = excluded.content,
	created_at = excluded.created_at
`,
		photo.ID,
		photo.SessionID,
		photo.ItemKey,
		strings.TrimSpace(photo.FileName),
		photo.Content,
		toMillis(photo.CreatedAt),
	); err != nil {
		return fmt.Errorf("put photo: %w", err)
	}
	return nil
}

// GetPhoto loads one photo blob by its opaque reference.
func (s *Store) GetPhoto(ctx context.Context, id string) (storage.Photo, error) {
	if err := ctx.Err(); err != nil {
		return storage.Photo{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.Photo{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Photo{}, fmt.Errorf("photo id is required")
	}

	var photo storage.Photo
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, session_id, item_key, file_name, content, created_at
FROM photos
WHERE id = ?
`, id).Scan(&photo.ID, &photo.SessionID, &photo.ItemKey, &photo.FileName, &photo.Content, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Photo{}, storage.ErrNotFound
		}
		return storage.Photo{}, fmt.Errorf("get photo: %w", err)
	}
	photo.CreatedAt = fromMillis(createdAt)
	return photo, nil
}

// PhotosBySession loads every photo submitted by one session, oldest first.
func (s *Store) PhotosBySession(ctx context.Context, sessionID string) ([]storage.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, session_id, item_key, file_name, content, created_at
FROM photos
WHERE session_id = ?
ORDER BY created_at, id
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	defer rows.Close()

	var photos []storage.Photo
	for rows.Next() {
		var photo storage.Photo
		var createdAt int64
		if err := rows.Scan(&photo.ID, &photo.SessionID, &photo.ItemKey, &photo.FileName, &photo.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photo.CreatedAt = fromMillis(createdAt)
		photos = append(photos, photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}
