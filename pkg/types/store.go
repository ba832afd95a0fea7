package types

import "context"

// Store defines the interface for backend-agnostic persistence access.
// Callers attach to a backend, access tables by name, and detach when done.
type Store interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Store to the backend described by config.
	// Creates the DataDir if it does not exist. Idempotent on first call;
	// returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrStoreDetached.
	Detach() error
}

// Table provides uniform CRUD operations for a single entity type.
// Get and Fetch return any; callers type-assert to the concrete entity struct.
type Table interface {
	// Get retrieves the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Get(id string) (any, error)

	// Set creates or updates an entity. When id is empty a new UUID v7 is
	// generated. Returns the actual ID used (generated or provided).
	Set(id string, data any) (string, error)

	// Delete removes the entity with the given ID.
	// Returns ErrNotFound if no entity exists with that ID.
	Delete(id string) error

	// Fetch returns all entities matching the filter. An empty filter
	// returns every entity in the table.
	Fetch(filter map[string]any) ([]any, error)
}

// Lookups answers cross-referential existence checks for record
// validation. Both methods return true only if every id in ids resolves
// within the given project. Implementations must be safe for concurrent
// calls from multiple fields of the same validation.
type Lookups interface {
	// MediaExistInProject reports whether every media id exists in the project.
	MediaExistInProject(ctx context.Context, ids []string, projectID string) (bool, error)

	// EntriesExistInProject reports whether every entry id exists in the project.
	EntriesExistInProject(ctx context.Context, ids []string, projectID string) (bool, error)
}
