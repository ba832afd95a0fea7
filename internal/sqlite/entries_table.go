// Entries table accessor. Every Set validates the submitted content
// against the owning content type's field definitions, with referential
// checks answered by the backend's own lookup collaborator.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/typeloom/typeloom/pkg/schema"
	"github.com/typeloom/typeloom/pkg/types"
	"github.com/typeloom/typeloom/pkg/validate"
)

var _ types.Table = (*entriesTable)(nil)

type entriesTable struct {
	backend *Backend
}

// Get retrieves an entry by ID.
func (t *entriesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	row := t.backend.db.QueryRow(
		"SELECT entry_id, content_type_id, project_id, content, created_at, modified_at FROM entries WHERE entry_id = ?", id)
	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry %s: %w", id, err)
	}
	return e, nil
}

// Set validates and persists an entry. The owning content type must
// exist; the entry content is checked against its field definitions and
// rejected with the validation error on any violation.
func (t *entriesTable) Set(id string, data any) (string, error) {
	e, ok := data.(*types.Entry)
	if !ok {
		return "", types.ErrInvalidData
	}
	if e.ContentTypeID == "" {
		return "", types.ErrInvalidData
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrStoreDetached
	}

	def, err := t.loadDefinition(e.ContentTypeID)
	if err != nil {
		return "", err
	}
	if e.ProjectID == "" {
		e.ProjectID = def.ProjectID
	}

	if err := validate.Record(context.Background(), def, e.Content, t.backend.lookupsLocked()); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	isCreate := id == "" && e.EntryID == ""
	if isCreate {
		e.EntryID = newUUID()
	} else if id != "" {
		e.EntryID = id
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.ModifiedAt = now

	contentJSON, err := json.Marshal(e.Content)
	if err != nil {
		return "", fmt.Errorf("marshaling entry content: %w", err)
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO entries (entry_id, content_type_id, project_id, content, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(entry_id) DO UPDATE SET
			content = excluded.content,
			modified_at = excluded.modified_at`,
		e.EntryID, e.ContentTypeID, e.ProjectID, string(contentJSON),
		e.CreatedAt.Format(time.RFC3339),
		e.ModifiedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting entry: %w", err)
	}

	if err := persistEntriesJSONL(t.backend); err != nil {
		return "", err
	}
	return e.EntryID, nil
}

// Delete removes an entry by ID.
func (t *entriesTable) Delete(id string) error {
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
		"SELECT 1 FROM entries WHERE entry_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking entry: %w", err)
	}
	if _, err := t.backend.db.Exec("DELETE FROM entries WHERE entry_id = ?", id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return persistEntriesJSONL(t.backend)
}

// Fetch returns entries matching the filter, newest first. Recognized
// filter keys: content_type_id, project_id, limit, offset.
func (t *entriesTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT entry_id, content_type_id, project_id, content, created_at, modified_at FROM entries"
	var conditions []string
	var args []any

	if contentTypeID, ok := filter["content_type_id"]; ok {
		ctid, ok := contentTypeID.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "content_type_id = ?")
		args = append(args, ctid)
	}
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
		return nil, fmt.Errorf("fetching entries: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		results = append(results, e)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

// loadDefinition fetches and parses the owning content type's document.
// The caller must hold the backend lock.
func (t *entriesTable) loadDefinition(contentTypeID string) (*types.ContentTypeDefinition, error) {
	var docJSON string
	err := t.backend.db.QueryRow(
		"SELECT document FROM content_types WHERE content_type_id = ?", contentTypeID).
		Scan(&docJSON)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading content type %s: %w", contentTypeID, err)
	}
	def, err := schema.Parse([]byte(docJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing content type %s: %w", contentTypeID, err)
	}
	def.ID = contentTypeID
	return def, nil
}

// scanEntry hydrates one entries row into a *types.Entry.
func scanEntry(scan func(dest ...any) error) (*types.Entry, error) {
	var e types.Entry
	var contentJSON, createdAt, modifiedAt string
	if err := scan(&e.EntryID, &e.ContentTypeID, &e.ProjectID, &contentJSON, &createdAt, &modifiedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(contentJSON), &e.Content); err != nil {
		return nil, fmt.Errorf("parsing entry content: %w", err)
	}
	var err error
	e.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing entry created_at: %w", err)
	}
	e.ModifiedAt, err = time.Parse(time.RFC3339, modifiedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing entry modified_at: %w", err)
	}
	return &e, nil
}

// persistEntriesJSONL reads all entry rows and writes them to
// entries.jsonl atomically. Shared with the content-type cascade delete.
func persistEntriesJSONL(b *Backend) error {
	rows, err := b.db.Query(
		"SELECT entry_id, content_type_id, project_id, content, created_at, modified_at FROM entries ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("reading entries for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec entryRecord
		var contentJSON string
		if err := rows.Scan(&rec.EntryID, &rec.ContentTypeID, &rec.ProjectID,
			&contentJSON, &rec.CreatedAt, &rec.ModifiedAt); err != nil {
			return fmt.Errorf("scanning entry for JSONL: %w", err)
		}
		rec.Content = json.RawMessage(contentJSON)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling entry for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(b.config.DataDir, entriesFile), records)
}
