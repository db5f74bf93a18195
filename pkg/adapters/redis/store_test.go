package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tabula/pkg/adapters/redis"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunStateStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	tableID := "table-ttl"

	err := store.Save(ctx, tableID, domain.State{domain.KeyGlobalFilter: "bar"})
	require.NoError(t, err)

	tables, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, tables, tableID)

	// Key expiration is driven by miniredis time.
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, tableID)
	assert.ErrorIs(t, err, domain.ErrTableNotFound)

	// Index pruning is driven by wall clock time.
	time.Sleep(1200 * time.Millisecond)

	tables, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, "my-table", domain.State{})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-table"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-table")
}

func TestRedisStore_DecodedStateReadsTyped(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	err := store.Save(ctx, "people", domain.State{
		domain.KeyColumnVisibility: map[string]bool{"age": false},
		domain.KeyRowSelection:     map[string]bool{"3": true},
	})
	require.NoError(t, err)

	loaded, err := store.Load(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"age": false}, loaded.ColumnVisibility())
	assert.Equal(t, map[string]bool{"3": true}, loaded.RowSelection())
}
