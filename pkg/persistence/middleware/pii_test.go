package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/domain"
	"github.com/aretw0/tabula/pkg/persistence/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{"(?i)filter", "ssn"})
	require.NoError(t, err)
	secure := mw(underlying)
	ctx := context.Background()

	state := domain.State{
		domain.KeyGlobalFilter: "jdoe@example.com",
		domain.KeySorting:      []domain.ColumnSort{{ID: "name"}},
		"meta": map[string]any{
			"address":    "123 St",
			"ssn_number": "999-99-9999",
		},
	}

	require.NoError(t, secure.Save(ctx, "people", state))

	assert.Equal(t, "jdoe@example.com", state[domain.KeyGlobalFilter], "the caller's state is untouched")
	assert.Equal(t, "999-99-9999", state["meta"].(map[string]any)["ssn_number"])

	stored, err := secure.Load(ctx, "people")
	require.NoError(t, err)
	assert.Equal(t, middleware.Mask, stored[domain.KeyGlobalFilter])
	assert.Equal(t, []domain.ColumnSort{{ID: "name"}}, stored.Sorting())

	meta := stored["meta"].(map[string]any)
	assert.Equal(t, "123 St", meta["address"])
	assert.Equal(t, middleware.Mask, meta["ssn_number"])
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestChain(t *testing.T) {
	underlying := memory.NewStore()
	pii, err := middleware.NewPIIMiddleware([]string{"secret"})
	require.NoError(t, err)
	enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: make([]byte, 32)})
	require.NoError(t, err)

	store := middleware.Chain(underlying, pii, enc)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "t", domain.State{"secret": "x", "open": "y"}))

	loaded, err := store.Load(ctx, "t")
	require.NoError(t, err)
	assert.Equal(t, domain.State{"secret": middleware.Mask, "open": "y"}, loaded)
}
