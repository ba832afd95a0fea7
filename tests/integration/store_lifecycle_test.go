// Integration tests for the store lifecycle: attach scaffolding, table
// access, detach semantics, and persistence across attach cycles.
package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeloom/typeloom/internal/sqlite"
	"github.com/typeloom/typeloom/pkg/types"
)

func TestStoreLifecycle_AttachScaffoldsDataDir(t *testing.T) {
	_, config := newAttachedBackend(t)

	for _, name := range []string{"content_types.jsonl", "entries.jsonl", "media.jsonl", "typeloom.db"} {
		_, err := os.Stat(filepath.Join(config.DataDir, name))
		assert.NoError(t, err, "expected %s after attach", name)
	}
}

func TestStoreLifecycle_DoubleAttachFails(t *testing.T) {
	backend, config := newAttachedBackend(t)
	assert.ErrorIs(t, backend.Attach(config), types.ErrAlreadyAttached)
}

func TestStoreLifecycle_DetachBlocksTableAccess(t *testing.T) {
	backend, _ := newAttachedBackend(t)

	table, err := backend.GetTable(types.TableContentTypes)
	require.NoError(t, err)

	require.NoError(t, backend.Detach())
	require.NoError(t, backend.Detach(), "detach must be idempotent")

	_, err = backend.GetTable(types.TableContentTypes)
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	_, err = table.Get("any-id")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
}

func TestStoreLifecycle_AllStandardTables(t *testing.T) {
	backend, _ := newAttachedBackend(t)

	for _, name := range types.StandardTableNames {
		table, err := backend.GetTable(name)
		require.NoError(t, err)
		assert.NotNil(t, table)
	}
	_, err := backend.GetTable("widgets")
	assert.ErrorIs(t, err, types.ErrTableNotFound)
}

func TestStoreLifecycle_DataSurvivesReattach(t *testing.T) {
	config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}

	first := sqlite.NewBackend()
	require.NoError(t, first.Attach(config))
	typesTbl, err := first.GetTable(types.TableContentTypes)
	require.NoError(t, err)
	typeID, err := typesTbl.Set("", articleDefinition("proj-1"))
	require.NoError(t, err)
	require.NoError(t, first.Detach())

	// The database file is a rebuildable cache; deleting it must not lose
	// data because the JSONL files are the source of truth.
	require.NoError(t, os.Remove(filepath.Join(config.DataDir, "typeloom.db")))

	second := sqlite.NewBackend()
	require.NoError(t, second.Attach(config))
	defer second.Detach()

	typesTbl, err = second.GetTable(types.TableContentTypes)
	require.NoError(t, err)
	got, err := typesTbl.Get(typeID)
	require.NoError(t, err)
	def := got.(*types.ContentTypeDefinition)
	assert.Equal(t, "Article", def.Name)
	assert.Len(t, def.Fields, 6)
}
