// Referential lookups for record validation. A lookups value carries a
// snapshot of the database handle taken while the backend lock was held:
// entry validation builds one under the write lock, Backend.Lookups under
// the read lock. The queries themselves run without the lock; *sql.DB is
// safe for concurrent use, and a snapshot that outlives Detach fails its
// queries against the closed handle rather than racing on the pointer.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/typeloom/typeloom/pkg/types"
)

type lookups struct {
	db *sql.DB
}

// MediaExistInProject reports whether every media id exists in the project.
func (l *lookups) MediaExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	return l.allExist(ctx, "media", "media_id", ids, projectID)
}

// EntriesExistInProject reports whether every entry id exists in the project.
func (l *lookups) EntriesExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	return l.allExist(ctx, "entries", "entry_id", ids, projectID)
}

// ContentTypeExistsInProject reports whether the content type exists in
// the project. Existence check for callers outside record validation.
func (l *lookups) ContentTypeExistsInProject(ctx context.Context, id, projectID string) (bool, error) {
	return l.allExist(ctx, "content_types", "content_type_id", []string{id}, projectID)
}

// allExist counts distinct matches for the deduplicated id set and
// compares against the set size. A single missing id makes the whole
// check false.
func (l *lookups) allExist(ctx context.Context, table, idColumn string, ids []string, projectID string) (bool, error) {
	db := l.db
	if db == nil {
		return false, types.ErrStoreDetached
	}
	unique := dedupe(ids)
	if len(unique) == 0 {
		return true, nil
	}

	placeholders := make([]string, len(unique))
	args := make([]any, 0, len(unique)+1)
	for i, id := range unique {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, projectID)

	query := fmt.Sprintf(
		"SELECT COUNT(DISTINCT %s) FROM %s WHERE %s IN (%s) AND project_id = ?",
		idColumn, table, idColumn, strings.Join(placeholders, ", "))

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("checking %s existence: %w", table, err)
	}
	return count == len(unique), nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
