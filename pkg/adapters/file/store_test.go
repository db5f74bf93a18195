package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tabula/pkg/adapters/file"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.StateStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "people", domain.State{"a": 1}))
	require.NoError(t, store.Save(ctx, "people", domain.State{"a": 2}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "people.json", entries[0].Name())

	loaded, err := store.Load(ctx, "people")
	require.NoError(t, err)
	assert.EqualValues(t, 2, loaded["a"])
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(filepath.Join(dir, "state"))
	ctx := context.Background()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		assert.Error(t, store.Save(ctx, id, domain.State{}), id)
	}
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(filepath.Join(t.TempDir(), "missing"))
	tables, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
}
