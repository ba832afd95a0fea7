// Startup loading: JSONL files are read into the fresh SQLite database
// inside one transaction. Content-type documents are re-validated against
// their schema fragments on the way in, so a corrupted or hand-edited
// document fails the attach instead of silently loading.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/typeloom/typeloom/pkg/schema"
)

// contentTypeRecord is the JSONL line format for content_types.jsonl.
// The document member is the compiled schema document; name and
// project_id are duplicated for query columns.
type contentTypeRecord struct {
	ContentTypeID string          `json:"content_type_id"`
	Name          string          `json:"name"`
	ProjectID     string          `json:"project_id"`
	Document      json.RawMessage `json:"document"`
	CreatedAt     string          `json:"created_at"`
	ModifiedAt    string          `json:"modified_at"`
}

// entryRecord is the JSONL line format for entries.jsonl.
type entryRecord struct {
	EntryID       string          `json:"entry_id"`
	ContentTypeID string          `json:"content_type_id"`
	ProjectID     string          `json:"project_id"`
	Content       json.RawMessage `json:"content"`
	CreatedAt     string          `json:"created_at"`
	ModifiedAt    string          `json:"modified_at"`
}

// mediaRecord is the JSONL line format for media.jsonl.
type mediaRecord struct {
	MediaID   string `json:"media_id"`
	ProjectID string `json:"project_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt string `json:"created_at"`
}

// loadAllJSONL reads each JSONL file from dataDir and inserts the records
// into the corresponding SQLite tables. Loading is transactional: all
// files load or the database stays empty.
func loadAllJSONL(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	if err := loadContentTypes(tx, dataDir); err != nil {
		return err
	}
	if err := loadEntries(tx, dataDir); err != nil {
		return err
	}
	if err := loadMedia(tx, dataDir); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

func loadContentTypes(tx *sql.Tx, dataDir string) error {
	lines, err := readJSONL(filepath.Join(dataDir, contentTypesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", contentTypesFile, err)
	}
	for _, line := range lines {
		var rec contentTypeRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		// Re-validate the stored document against the schema fragments.
		if _, err := schema.Parse(rec.Document); err != nil {
			return fmt.Errorf("content type %s: %w", rec.ContentTypeID, err)
		}
		_, err := tx.Exec(
			"INSERT INTO content_types (content_type_id, name, project_id, document, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?)",
			rec.ContentTypeID, rec.Name, rec.ProjectID, string(rec.Document),
			rec.CreatedAt, rec.ModifiedAt)
		if err != nil {
			return fmt.Errorf("loading content type %s: %w", rec.ContentTypeID, err)
		}
	}
	return nil
}

func loadEntries(tx *sql.Tx, dataDir string) error {
	lines, err := readJSONL(filepath.Join(dataDir, entriesFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", entriesFile, err)
	}
	for _, line := range lines {
		var rec entryRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO entries (entry_id, content_type_id, project_id, content, created_at, modified_at) VALUES (?, ?, ?, ?, ?, ?)",
			rec.EntryID, rec.ContentTypeID, rec.ProjectID, string(rec.Content),
			rec.CreatedAt, rec.ModifiedAt)
		if err != nil {
			return fmt.Errorf("loading entry %s: %w", rec.EntryID, err)
		}
	}
	return nil
}

func loadMedia(tx *sql.Tx, dataDir string) error {
	lines, err := readJSONL(filepath.Join(dataDir, mediaFile))
	if err != nil {
		return fmt.Errorf("reading %s: %w", mediaFile, err)
	}
	for _, line := range lines {
		var rec mediaRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		_, err := tx.Exec(
			"INSERT INTO media (media_id, project_id, file_name, mime_type, size, created_at) VALUES (?, ?, ?, ?, ?, ?)",
			rec.MediaID, rec.ProjectID, rec.FileName, rec.MimeType, rec.Size,
			rec.CreatedAt)
		if err != nil {
			return fmt.Errorf("loading media %s: %w", rec.MediaID, err)
		}
	}
	return nil
}
