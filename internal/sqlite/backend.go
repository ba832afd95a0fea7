package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/typeloom/typeloom/pkg/types"
)

// Backend implements types.Store using SQLite as the query engine and
// JSONL files as the source of truth. Attach rebuilds the database from
// the JSONL files; every write persists back to them atomically.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]types.Table
	lookups  types.Lookups
}

// Compile-time interface checks.
var (
	_ types.Store   = (*Backend)(nil)
	_ types.Lookups = (*lookups)(nil)
)

// NewBackend creates a new SQLite backend instance. The backend is not
// attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// GetTable returns the Table for the given standard table name.
// Returns ErrTableNotFound for unrecognized names and ErrStoreDetached
// when the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration. It creates
// DataDir if needed, builds a fresh SQLite database, and loads the JSONL
// files into it. Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	config.DataDir = dataDir

	// The database file is a rebuildable cache; start from a fresh schema
	// on every attach.
	dbPath := filepath.Join(dataDir, "typeloom.db")
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating indexes: %w", err)
		}
	}

	if err := initJSONLFiles(dataDir); err != nil {
		db.Close()
		return err
	}
	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("load JSONL: %w", err)
	}

	b.db = db
	b.config = config
	b.attached = true

	b.tables[types.TableContentTypes] = &contentTypesTable{backend: b}
	b.tables[types.TableEntries] = &entriesTable{backend: b}
	b.tables[types.TableMedia] = &mediaTable{backend: b}

	return nil
}

// Detach releases all resources held by the backend. After Detach, table
// access returns ErrStoreDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	b.tables = make(map[string]types.Table)
	return nil
}

// Lookups returns the active referential lookup collaborator: the one
// injected with UseLookups, or a store-backed one otherwise. The returned
// value stays usable until Detach; afterwards its checks fail instead of
// answering against a closed database.
func (b *Backend) Lookups() types.Lookups {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lookupsLocked()
}

// UseLookups replaces the store-backed lookup collaborator, for example
// with a Redis-backed index. Passing nil restores the default.
func (b *Backend) UseLookups(l types.Lookups) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lookups = l
}

// lookupsLocked returns the active lookup collaborator. The caller must
// hold the backend lock.
func (b *Backend) lookupsLocked() types.Lookups {
	if b.lookups != nil {
		return b.lookups
	}
	return &lookups{db: b.db}
}

// ContentTypeExistsInProject reports whether the content type exists in
// the project.
func (b *Backend) ContentTypeExistsInProject(ctx context.Context, id, projectID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return false, types.ErrStoreDetached
	}
	return (&lookups{db: b.db}).ContentTypeExistsInProject(ctx, id, projectID)
}

// newUUID generates a UUID v7 string, falling back to v4 if the clock
// source fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
