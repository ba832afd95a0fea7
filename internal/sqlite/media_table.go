// Media table accessor. Media rows are registry records; the asset bytes
// live outside this system.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/typeloom/typeloom/pkg/types"
)

var _ types.Table = (*mediaTable)(nil)

type mediaTable struct {
	backend *Backend
}

// Get retrieves a media record by ID.
func (t *mediaTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT media_id, project_id, file_name, mime_type, size, created_at FROM media WHERE media_id = ?", id)
	m, err := scanMedia(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting media %s: %w", id, err)
	}
	return m, nil
}

// Set persists a media record. FileName and ProjectID are required.
func (t *mediaTable) Set(id string, data any) (string, error) {
	m, ok := data.(*types.Media)
	if !ok {
		return "", types.ErrInvalidData
	}
	if m.FileName == "" || m.ProjectID == "" {
		return "", types.ErrInvalidData
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrStoreDetached
	}

	isCreate := id == "" && m.MediaID == ""
	if isCreate {
		m.MediaID = newUUID()
	} else if id != "" {
		m.MediaID = id
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := t.backend.db.Exec(`
		INSERT INTO media (media_id, project_id, file_name, mime_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(media_id) DO UPDATE SET
			file_name = excluded.file_name,
			mime_type = excluded.mime_type,
			size = excluded.size`,
		m.MediaID, m.ProjectID, m.FileName, m.MimeType, m.Size,
		m.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting media: %w", err)
	}

	if err := persistMediaJSONL(t.backend); err != nil {
		return "", err
	}
	return m.MediaID, nil
}

// Delete removes a media record by ID.
func (t *mediaTable) Delete(id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return types.ErrStoreDetached
	}

	var exists int
	if err := t.backend.db.QueryRow(
		"SELECT 1 FROM media WHERE media_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking media: %w", err)
	}
	if _, err := t.backend.db.Exec("DELETE FROM media WHERE media_id = ?", id); err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return persistMediaJSONL(t.backend)
}

// Fetch returns media records matching the filter, newest first.
// Recognized filter keys: project_id, limit, offset.
func (t *mediaTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT media_id, project_id, file_name, mime_type, size, created_at FROM media"
	var conditions []string
	var args []any

	if projectID, ok := filter["project_id"]; ok {
		pid, ok := projectID.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "project_id = ?")
		args = append(args, pid)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	query, err := applyLimitOffset(query, filter)
	if err != nil {
		return nil, err
	}

	rows, err := t.backend.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching media: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		m, err := scanMedia(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning media: %w", err)
		}
		results = append(results, m)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

// scanMedia hydrates one media row into a *types.Media.
func scanMedia(scan func(dest ...any) error) (*types.Media, error) {
	var m types.Media
	var mimeType sql.NullString
	var createdAt string
	if err := scan(&m.MediaID, &m.ProjectID, &m.FileName, &mimeType, &m.Size, &createdAt); err != nil {
		return nil, err
	}
	if mimeType.Valid {
		m.MimeType = mimeType.String
	}
	var err error
	m.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing media created_at: %w", err)
	}
	return &m, nil
}

// persistMediaJSONL reads all media rows and writes them to media.jsonl
// atomically.
func persistMediaJSONL(b *Backend) error {
	rows, err := b.db.Query(
		"SELECT media_id, project_id, file_name, mime_type, size, created_at FROM media ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("reading media for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec mediaRecord
		var mimeType sql.NullString
		if err := rows.Scan(&rec.MediaID, &rec.ProjectID, &rec.FileName,
			&mimeType, &rec.Size, &rec.CreatedAt); err != nil {
			return fmt.Errorf("scanning media for JSONL: %w", err)
		}
		if mimeType.Valid {
			rec.MimeType = mimeType.String
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling media for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.config.DataDir, mediaFile), records)
}
