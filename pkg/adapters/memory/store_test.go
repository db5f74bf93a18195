package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunStateStoreContract(t, store)
}

func TestMemoryStore_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, "t", domain.State{"k": 1}))

	loaded, err := store.Load(ctx, "t")
	require.NoError(t, err)
	loaded["k"] = 2

	again, err := store.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, 1, again["k"])
}
