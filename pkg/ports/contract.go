package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/tabula/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	tableID := "contract-test-table-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.State{
			domain.KeyGlobalFilter: "ada",
			domain.KeyPagination:   domain.PaginationState{PageIndex: 2, PageSize: 20},
			domain.KeySorting:      []domain.ColumnSort{{ID: "name", Desc: true}},
		}

		err := store.Save(ctx, tableID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, tableID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, "ada", loaded[domain.KeyGlobalFilter])
		// Serializing stores hand back decoded JSON; the typed accessors must read both forms.
		assert.Equal(t, domain.PaginationState{PageIndex: 2, PageSize: 20}, loaded.Pagination())
		assert.Equal(t, []domain.ColumnSort{{ID: "name", Desc: true}}, loaded.Sorting())
	})

	t.Run("Save isolates the caller's map", func(t *testing.T) {
		state := domain.State{"k": "before"}
		require.NoError(t, store.Save(ctx, tableID, state))
		state["k"] = "after"

		loaded, err := store.Load(ctx, tableID)
		require.NoError(t, err)
		assert.Equal(t, "before", loaded["k"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+tableID)
		assert.ErrorIs(t, err, domain.ErrTableNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, tableID, domain.State{})
		require.NoError(t, err)

		err = store.Delete(ctx, tableID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, tableID)
		assert.ErrorIs(t, err, domain.ErrTableNotFound, "Load after Delete should return ErrTableNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := tableID + "-1"
		id2 := tableID + "-2"
		_ = store.Save(ctx, id1, domain.State{})
		_ = store.Save(ctx, id2, domain.State{})

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		tables, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, tables, id1)
		assert.Contains(t, tables, id2)
	})
}
