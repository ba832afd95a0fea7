// Package sqlite implements the SQLite storage backend. SQLite is the
// query engine; JSONL files in the data directory are the source of
// truth and are rebuilt into the database on every Attach.
package sqlite

// Schema DDL for all tables.
const (
	createContentTypes = `CREATE TABLE content_types (
    content_type_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    project_id TEXT NOT NULL,
    document TEXT NOT NULL,
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL
);`

	createEntries = `CREATE TABLE entries (
    entry_id TEXT PRIMARY KEY,
    content_type_id TEXT NOT NULL,
    project_id TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at TEXT NOT NULL,
    modified_at TEXT NOT NULL,
    FOREIGN KEY (content_type_id) REFERENCES content_types(content_type_id)
);`

	createMedia = `CREATE TABLE media (
    media_id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    file_name TEXT NOT NULL,
    mime_type TEXT,
    size INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for common queries.
const (
	idxContentTypesProjectName = `CREATE UNIQUE INDEX idx_content_types_project_name ON content_types(project_id, name);`
	idxEntriesContentType      = `CREATE INDEX idx_entries_content_type ON entries(content_type_id);`
	idxEntriesProject          = `CREATE INDEX idx_entries_project ON entries(project_id);`
	idxMediaProject            = `CREATE INDEX idx_media_project ON media(project_id);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createContentTypes,
	createEntries,
	createMedia,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxContentTypesProjectName,
	idxEntriesContentType,
	idxEntriesProject,
	idxMediaProject,
}
