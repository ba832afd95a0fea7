// Content-type table accessor. Definitions are validated and compiled
// into schema documents on Set; the document JSON is the stored form and
// is parsed back on Get.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/typeloom/typeloom/pkg/schema"
	"github.com/typeloom/typeloom/pkg/types"
)

var _ types.Table = (*contentTypesTable)(nil)

type contentTypesTable struct {
	backend *Backend
}

// Get retrieves a content type by ID and rehydrates the stored schema
// document into a *types.ContentTypeDefinition.
func (t *contentTypesTable) Get(id string) (any, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	var docJSON string
	err := t.backend.db.QueryRow(
		"SELECT document FROM content_types WHERE content_type_id = ?", id).
		Scan(&docJSON)
	if err == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting content type %s: %w", id, err)
	}

	def, err := schema.Parse([]byte(docJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing content type %s: %w", id, err)
	}
	def.ID = id
	return def, nil
}

// Set validates, compiles, and persists a content-type definition. When
// id is empty a UUID v7 is generated. A definition that fails validation
// is rejected with the validation error; nothing is written.
func (t *contentTypesTable) Set(id string, data any) (string, error) {
	def, ok := data.(*types.ContentTypeDefinition)
	if !ok {
		return "", types.ErrInvalidData
	}

	t.backend.mu.Lock()
	defer t.backend.mu.Unlock()
	if !t.backend.attached {
		return "", types.ErrStoreDetached
	}

	now := time.Now().UTC()
	isCreate := id == "" && def.ID == ""
	if isCreate {
		def.ID = newUUID()
	} else if id != "" {
		def.ID = id
	}
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}
	def.ModifiedAt = now

	doc, err := schema.Compile(def)
	if err != nil {
		return "", err
	}
	docJSON, err := doc.Marshal()
	if err != nil {
		return "", fmt.Errorf("marshaling schema document: %w", err)
	}

	// Names are unique per project. The check covers updates too: renaming
	// a type onto another type's name is a duplicate, re-saving under its
	// own name is not.
	var existingID string
	err = t.backend.db.QueryRow(
		"SELECT content_type_id FROM content_types WHERE project_id = ? AND name = ?",
		def.ProjectID, def.Name).Scan(&existingID)
	if err == nil && existingID != def.ID {
		return "", types.ErrDuplicateName
	}
	if err != nil && err != sql.ErrNoRows {
		return "", fmt.Errorf("checking content type name: %w", err)
	}

	_, err = t.backend.db.Exec(`
		INSERT INTO content_types (content_type_id, name, project_id, document, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_type_id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			modified_at = excluded.modified_at`,
		def.ID, def.Name, def.ProjectID, string(docJSON),
		def.CreatedAt.Format(time.RFC3339),
		def.ModifiedAt.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("upserting content type: %w", err)
	}

	if err := t.persistContentTypesJSONL(); err != nil {
		return "", err
	}
	return def.ID, nil
}

// Delete removes a content type and every entry belonging to it.
func (t *contentTypesTable) Delete(id string) error {
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
		"SELECT 1 FROM content_types WHERE content_type_id = ?", id).Scan(&exists); err == sql.ErrNoRows {
		return types.ErrNotFound
	} else if err != nil {
		return fmt.Errorf("checking content type: %w", err)
	}

	if _, err := t.backend.db.Exec(
		"DELETE FROM entries WHERE content_type_id = ?", id); err != nil {
		return fmt.Errorf("deleting content type entries: %w", err)
	}
	if _, err := t.backend.db.Exec(
		"DELETE FROM content_types WHERE content_type_id = ?", id); err != nil {
		return fmt.Errorf("deleting content type: %w", err)
	}

	if err := t.persistContentTypesJSONL(); err != nil {
		return err
	}
	return persistEntriesJSONL(t.backend)
}

// Fetch returns content types matching the filter, newest first.
// Recognized filter keys: project_id, name, limit, offset.
func (t *contentTypesTable) Fetch(filter map[string]any) ([]any, error) {
	t.backend.mu.RLock()
	defer t.backend.mu.RUnlock()
	if !t.backend.attached {
		return nil, types.ErrStoreDetached
	}

	query := "SELECT content_type_id, document FROM content_types"
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
	if name, ok := filter["name"]; ok {
		n, ok := name.(string)
		if !ok {
			return nil, types.ErrInvalidFilter
		}
		conditions = append(conditions, "name = ?")
		args = append(args, n)
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
		return nil, fmt.Errorf("fetching content types: %w", err)
	}
	defer rows.Close()

	var results []any
	for rows.Next() {
		var id, docJSON string
		if err := rows.Scan(&id, &docJSON); err != nil {
			return nil, fmt.Errorf("scanning content type: %w", err)
		}
		def, err := schema.Parse([]byte(docJSON))
		if err != nil {
			return nil, fmt.Errorf("parsing content type %s: %w", id, err)
		}
		def.ID = id
		results = append(results, def)
	}
	if results == nil {
		results = []any{}
	}
	return results, rows.Err()
}

// persistContentTypesJSONL reads all content-type rows and writes them to
// content_types.jsonl atomically.
func (t *contentTypesTable) persistContentTypesJSONL() error {
	rows, err := t.backend.db.Query(
		"SELECT content_type_id, name, project_id, document, created_at, modified_at FROM content_types ORDER BY created_at")
	if err != nil {
		return fmt.Errorf("reading content types for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec contentTypeRecord
		var docJSON string
		if err := rows.Scan(&rec.ContentTypeID, &rec.Name, &rec.ProjectID,
			&docJSON, &rec.CreatedAt, &rec.ModifiedAt); err != nil {
			return fmt.Errorf("scanning content type for JSONL: %w", err)
		}
		rec.Document = json.RawMessage(docJSON)
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling content type for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	return writeJSONL(filepath.Join(t.backend.config.DataDir, contentTypesFile), records)
}

// applyLimitOffset appends LIMIT and OFFSET clauses from the filter.
func applyLimitOffset(query string, filter map[string]any) (string, error) {
	if limit, ok := filter["limit"]; ok {
		l, ok := toInt(limit)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if l > 0 {
			query += fmt.Sprintf(" LIMIT %d", l)
		}
	}
	if offset, ok := filter["offset"]; ok {
		o, ok := toInt(offset)
		if !ok {
			return "", types.ErrInvalidFilter
		}
		if o > 0 {
			query += fmt.Sprintf(" OFFSET %d", o)
		}
	}
	return query, nil
}

// toInt converts the numeric filter representations to int.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
