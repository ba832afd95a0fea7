package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/typeloom/typeloom/pkg/types"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }

func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
}

func attachedBackend(t *testing.T) (*Backend, types.Config) {
	t.Helper()
	b := NewBackend()
	cfg := testConfig(t)
	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b, cfg
}

// articleType builds a definition with a TEXT field plus MEDIA and LINK
// references so one fixture exercises the lookup path.
func articleType(projectID string) *types.ContentTypeDefinition {
	return &types.ContentTypeDefinition{
		Name:      "Article",
		ProjectID: projectID,
		UserID:    "user-1",
		Fields: []types.FieldDefinition{
			{
				FieldType: types.FieldKindText,
				Name:      "headline",
				Label:     "Headline",
				Required:  boolPtr(true),
				Disabled:  boolPtr(false),
				MinLength: intPtr(1),
				MaxLength: intPtr(120),
				Format:    types.FormatPlaintext,
			},
			{
				FieldType: types.FieldKindMedia,
				Name:      "coverImage",
				Label:     "Cover image",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				MinLength: intPtr(0),
				MaxLength: intPtr(5),
			},
			{
				FieldType: types.FieldKindLink,
				Name:      "relatedArticles",
				Label:     "Related articles",
				Required:  boolPtr(false),
				Disabled:  boolPtr(false),
				MinLength: intPtr(0),
				MaxLength: intPtr(5),
			},
		},
	}
}

func TestAttachDetachLifecycle(t *testing.T) {
	b := NewBackend()
	cfg := testConfig(t)

	if _, err := b.GetTable(types.TableContentTypes); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("expected ErrStoreDetached before attach, got %v", err)
	}

	if err := b.Attach(cfg); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := b.Attach(cfg); !errors.Is(err, types.ErrAlreadyAttached) {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	for _, name := range types.StandardTableNames {
		if _, err := b.GetTable(name); err != nil {
			t.Errorf("GetTable(%q) failed: %v", name, err)
		}
	}
	if _, err := b.GetTable("bogus"); !errors.Is(err, types.ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach must succeed, got %v", err)
	}
	if _, err := b.GetTable(types.TableContentTypes); !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("expected ErrStoreDetached after detach, got %v", err)
	}
}

func TestAttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	if err := b.Attach(types.Config{DataDir: t.TempDir()}); !errors.Is(err, types.ErrBackendEmpty) {
		t.Errorf("expected ErrBackendEmpty, got %v", err)
	}
	if err := b.Attach(types.Config{Backend: "cassandra"}); !errors.Is(err, types.ErrBackendUnknown) {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestAttachScaffoldsDataDir(t *testing.T) {
	_, cfg := attachedBackend(t)

	for _, name := range jsonlFiles {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.DataDir, "typeloom.db")); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestContentTypeCRUD(t *testing.T) {
	b, _ := attachedBackend(t)
	table, err := b.GetTable(types.TableContentTypes)
	if err != nil {
		t.Fatal(err)
	}

	id, err := table.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	got, err := table.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	def, ok := got.(*types.ContentTypeDefinition)
	if !ok {
		t.Fatalf("expected *ContentTypeDefinition, got %T", got)
	}
	if def.ID != id || def.Name != "Article" || len(def.Fields) != 3 {
		t.Errorf("unexpected definition: %+v", def)
	}

	// Same name in another project is fine; in the same project it is not.
	if _, err := table.Set("", articleType("proj-2")); err != nil {
		t.Errorf("same name in another project must succeed: %v", err)
	}
	if _, err := table.Set("", articleType("proj-1")); !errors.Is(err, types.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}

	update := articleType("proj-1")
	update.Description = "Long-form editorial content"
	if _, err := table.Set(id, update); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err = table.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.(*types.ContentTypeDefinition).Description != "Long-form editorial content" {
		t.Error("update not persisted")
	}

	results, err := table.Fetch(map[string]any{"project_id": "proj-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 content type in proj-1, got %d", len(results))
	}

	if err := table.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := table.Get(id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := table.Delete(id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestContentTypeSetRejectsInvalid(t *testing.T) {
	b, _ := attachedBackend(t)
	table, err := b.GetTable(types.TableContentTypes)
	if err != nil {
		t.Fatal(err)
	}

	def := articleType("proj-1")
	def.UserID = ""
	_, err = table.Set("", def)
	var se *types.StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StructuralError, got %v", err)
	}

	results, err := table.Fetch(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Error("rejected definition must not be stored")
	}
}

func TestEntryValidationAndLookups(t *testing.T) {
	b, _ := attachedBackend(t)
	typeTable, _ := b.GetTable(types.TableContentTypes)
	entryTable, _ := b.GetTable(types.TableEntries)
	mediaTable, _ := b.GetTable(types.TableMedia)

	typeID, err := typeTable.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}
	mediaID, err := mediaTable.Set("", &types.Media{
		ProjectID: "proj-1",
		FileName:  "cover.png",
		MimeType:  "image/png",
		Size:      2048,
	})
	if err != nil {
		t.Fatal(err)
	}

	entryID, err := entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content: types.ContentRecord{
			"headline":   "First article",
			"coverImage": []any{mediaID},
		},
	})
	if err != nil {
		t.Fatalf("expected entry referencing registered media to pass: %v", err)
	}

	got, err := entryTable.Get(entryID)
	if err != nil {
		t.Fatal(err)
	}
	e := got.(*types.Entry)
	if e.ProjectID != "proj-1" {
		t.Errorf("entry must inherit the type's project, got %q", e.ProjectID)
	}
	if e.Content["headline"] != "First article" {
		t.Errorf("content not preserved: %v", e.Content)
	}

	// Second entry can reference the first through a LINK field.
	if _, err := entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content: types.ContentRecord{
			"headline":        "Second article",
			"relatedArticles": []any{entryID},
		},
	}); err != nil {
		t.Errorf("expected entry referencing stored entry to pass: %v", err)
	}

	tests := []struct {
		name    string
		content types.ContentRecord
	}{
		{"missing required field", types.ContentRecord{"coverImage": []any{mediaID}}},
		{"unknown media reference", types.ContentRecord{"headline": "x", "coverImage": []any{"nope"}}},
		{"unknown entry reference", types.ContentRecord{"headline": "x", "relatedArticles": []any{"nope"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := entryTable.Set("", &types.Entry{ContentTypeID: typeID, Content: tt.content})
			var ve *types.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
		})
	}
}

func TestEntrySetUnknownContentType(t *testing.T) {
	b, _ := attachedBackend(t)
	entryTable, _ := b.GetTable(types.TableEntries)

	_, err := entryTable.Set("", &types.Entry{
		ContentTypeID: "missing-type",
		Content:       types.ContentRecord{"headline": "x"},
	})
	if !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = entryTable.Set("", &types.Entry{Content: types.ContentRecord{}})
	if !errors.Is(err, types.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData without content type, got %v", err)
	}
}

func TestContentTypeDeleteCascades(t *testing.T) {
	b, _ := attachedBackend(t)
	typeTable, _ := b.GetTable(types.TableContentTypes)
	entryTable, _ := b.GetTable(types.TableEntries)

	typeID, err := typeTable.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}
	entryID, err := entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content:       types.ContentRecord{"headline": "doomed"},
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := typeTable.Delete(typeID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := entryTable.Get(entryID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected cascaded entry delete, got %v", err)
	}
}

func TestMediaCRUD(t *testing.T) {
	b, _ := attachedBackend(t)
	table, _ := b.GetTable(types.TableMedia)

	if _, err := table.Set("", &types.Media{ProjectID: "proj-1"}); !errors.Is(err, types.ErrInvalidData) {
		t.Errorf("expected ErrInvalidData without file name, got %v", err)
	}

	id, err := table.Set("", &types.Media{
		ProjectID: "proj-1",
		FileName:  "logo.svg",
		MimeType:  "image/svg+xml",
		Size:      512,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := table.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	m := got.(*types.Media)
	if m.FileName != "logo.svg" || m.Size != 512 {
		t.Errorf("unexpected media record: %+v", m)
	}

	results, err := table.Fetch(map[string]any{"project_id": "proj-1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 media record, got %d", len(results))
	}

	if err := table.Delete(id); err != nil {
		t.Fatal(err)
	}
	if _, err := table.Get(id); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestFetchLimitOffset(t *testing.T) {
	b, _ := attachedBackend(t)
	table, _ := b.GetTable(types.TableMedia)

	for _, name := range []string{"a.png", "b.png", "c.png"} {
		if _, err := table.Set("", &types.Media{ProjectID: "proj-1", FileName: name}); err != nil {
			t.Fatal(err)
		}
	}

	results, err := table.Fetch(map[string]any{"limit": 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results with limit, got %d", len(results))
	}

	if _, err := table.Fetch(map[string]any{"limit": "two"}); !errors.Is(err, types.ErrInvalidFilter) {
		t.Errorf("expected ErrInvalidFilter, got %v", err)
	}
}

func TestLookupsAgainstStore(t *testing.T) {
	b, _ := attachedBackend(t)
	mediaTable, _ := b.GetTable(types.TableMedia)

	id1, err := mediaTable.Set("", &types.Media{ProjectID: "proj-1", FileName: "a.png"})
	if err != nil {
		t.Fatal(err)
	}
	id2, err := mediaTable.Set("", &types.Media{ProjectID: "proj-1", FileName: "b.png"})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	lookups := b.Lookups()

	tests := []struct {
		name      string
		ids       []string
		projectID string
		want      bool
	}{
		{"all present", []string{id1, id2}, "proj-1", true},
		{"duplicate ids", []string{id1, id1}, "proj-1", true},
		{"empty set", nil, "proj-1", true},
		{"one missing", []string{id1, "nope"}, "proj-1", false},
		{"wrong project", []string{id1}, "proj-2", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lookups.MediaExistInProject(ctx, tt.ids, tt.projectID)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("MediaExistInProject = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContentTypeExistsInProject(t *testing.T) {
	b, _ := attachedBackend(t)
	typeTable, _ := b.GetTable(types.TableContentTypes)

	id, err := typeTable.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if ok, err := b.ContentTypeExistsInProject(ctx, id, "proj-1"); err != nil || !ok {
		t.Errorf("expected content type to exist in proj-1, got %v, %v", ok, err)
	}
	if ok, _ := b.ContentTypeExistsInProject(ctx, id, "proj-2"); ok {
		t.Error("content type must not resolve in another project")
	}
	if ok, _ := b.ContentTypeExistsInProject(ctx, "missing", "proj-1"); ok {
		t.Error("missing id must not resolve")
	}
}

// staticLookups answers every existence check the same way and counts
// how often it was asked.
type staticLookups struct {
	answer bool
	calls  int
}

func (s *staticLookups) MediaExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	s.calls++
	return s.answer, nil
}

func (s *staticLookups) EntriesExistInProject(ctx context.Context, ids []string, projectID string) (bool, error) {
	s.calls++
	return s.answer, nil
}

func TestUseLookupsOverride(t *testing.T) {
	b, _ := attachedBackend(t)
	typeTable, _ := b.GetTable(types.TableContentTypes)
	entryTable, _ := b.GetTable(types.TableEntries)

	typeID, err := typeTable.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}

	stub := &staticLookups{answer: true}
	b.UseLookups(stub)

	if got := b.Lookups(); got != types.Lookups(stub) {
		t.Errorf("Lookups() must return the injected collaborator, got %T", got)
	}

	// The injected collaborator answers the reference checks, so an id the
	// store has never seen passes validation.
	if _, err := entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content: types.ContentRecord{
			"headline":   "Answered elsewhere",
			"coverImage": []any{"unregistered-media"},
		},
	}); err != nil {
		t.Fatalf("expected injected lookups to answer the media check: %v", err)
	}
	if stub.calls == 0 {
		t.Error("injected lookups never consulted")
	}

	// Nil restores the store-backed default, which rejects the same id.
	b.UseLookups(nil)
	_, err = entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content: types.ContentRecord{
			"headline":   "Back to the store",
			"coverImage": []any{"unregistered-media"},
		},
	})
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError from store-backed lookups, got %v", err)
	}
}

func TestLookupsBeforeAttach(t *testing.T) {
	b := NewBackend()

	_, err := b.Lookups().MediaExistInProject(context.Background(), []string{"m1"}, "proj-1")
	if !errors.Is(err, types.ErrStoreDetached) {
		t.Errorf("expected ErrStoreDetached, got %v", err)
	}
}

func TestContentTypeRenameOntoExistingName(t *testing.T) {
	b, _ := attachedBackend(t)
	table, _ := b.GetTable(types.TableContentTypes)

	if _, err := table.Set("", articleType("proj-1")); err != nil {
		t.Fatal(err)
	}
	review := articleType("proj-1")
	review.Name = "Review"
	reviewID, err := table.Set("", review)
	if err != nil {
		t.Fatal(err)
	}

	// Renaming onto another type's name is a duplicate, not a raw
	// constraint failure.
	renamed := articleType("proj-1")
	renamed.Name = "Article"
	if _, err := table.Set(reviewID, renamed); !errors.Is(err, types.ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName on rename collision, got %v", err)
	}

	// Re-saving a type under its own name is not a collision.
	review = articleType("proj-1")
	review.Name = "Review"
	review.Description = "Critic reviews"
	if _, err := table.Set(reviewID, review); err != nil {
		t.Errorf("re-saving under own name must succeed: %v", err)
	}
}

func TestSetWithExplicitIDBackfillsCreatedAt(t *testing.T) {
	b, _ := attachedBackend(t)
	typeTable, _ := b.GetTable(types.TableContentTypes)
	entryTable, _ := b.GetTable(types.TableEntries)
	mediaTable, _ := b.GetTable(types.TableMedia)

	typeID, err := typeTable.Set("ct-fixed", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}
	gotType, err := typeTable.Get(typeID)
	if err != nil {
		t.Fatal(err)
	}
	if gotType.(*types.ContentTypeDefinition).CreatedAt.IsZero() {
		t.Error("content type stored with zero CreatedAt")
	}

	entryID, err := entryTable.Set("entry-fixed", &types.Entry{
		ContentTypeID: typeID,
		Content:       types.ContentRecord{"headline": "Fresh row, fixed id"},
	})
	if err != nil {
		t.Fatal(err)
	}
	gotEntry, err := entryTable.Get(entryID)
	if err != nil {
		t.Fatal(err)
	}
	if gotEntry.(*types.Entry).CreatedAt.IsZero() {
		t.Error("entry stored with zero CreatedAt")
	}

	mediaID, err := mediaTable.Set("media-fixed", &types.Media{
		ProjectID: "proj-1",
		FileName:  "fixed.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	gotMedia, err := mediaTable.Get(mediaID)
	if err != nil {
		t.Fatal(err)
	}
	if gotMedia.(*types.Media).CreatedAt.IsZero() {
		t.Error("media stored with zero CreatedAt")
	}
}

func TestReloadFromJSONL(t *testing.T) {
	cfg := testConfig(t)

	first := NewBackend()
	if err := first.Attach(cfg); err != nil {
		t.Fatal(err)
	}
	typeTable, _ := first.GetTable(types.TableContentTypes)
	entryTable, _ := first.GetTable(types.TableEntries)

	typeID, err := typeTable.Set("", articleType("proj-1"))
	if err != nil {
		t.Fatal(err)
	}
	entryID, err := entryTable.Set("", &types.Entry{
		ContentTypeID: typeID,
		Content:       types.ContentRecord{"headline": "Survives reload"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := first.Detach(); err != nil {
		t.Fatal(err)
	}

	second := NewBackend()
	if err := second.Attach(cfg); err != nil {
		t.Fatalf("re-attach failed: %v", err)
	}
	defer second.Detach()

	typeTable, _ = second.GetTable(types.TableContentTypes)
	entryTable, _ = second.GetTable(types.TableEntries)

	got, err := typeTable.Get(typeID)
	if err != nil {
		t.Fatalf("content type lost across reload: %v", err)
	}
	if got.(*types.ContentTypeDefinition).Name != "Article" {
		t.Error("content type corrupted across reload")
	}

	gotEntry, err := entryTable.Get(entryID)
	if err != nil {
		t.Fatalf("entry lost across reload: %v", err)
	}
	if gotEntry.(*types.Entry).Content["headline"] != "Survives reload" {
		t.Error("entry content corrupted across reload")
	}
}
