package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meme-token-dashboard/internal/storage"
	"meme-token-dashboard/internal/storage/migrations"
	"meme-token-dashboard/internal/storage/storagetest"
)

func TestPostgresStores_Contract(t *testing.T) {
	pool := setupTestDB(t)

	storagetest.Run(t, func(t *testing.T) storage.Stores {
		truncateAll(t, pool)
		return NewStores(pool)
	})
}

func TestMigrations_Idempotent(t *testing.T) {
	pool := setupTestDB(t)

	// setupTestDB already applied them once.
	require.NoError(t, migrations.RunPostgresMigrations(context.Background(), pool))
}

func TestTokenStore_DecimalPrecisionPreserved(t *testing.T) {
	pool := setupTestDB(t)

	ctx := context.Background()
	store := NewTokenStore(pool)

	tok := storagetest.NewToken("PREC")
	tok.Price = tok.Price.Shift(-4) // 0.00000024
	created, err := store.Insert(ctx, tok)
	require.NoError(t, err)

	assert.Equal(t, "0.00000024", created.Price.String())
	assert.True(t, tok.MarketCap.Equal(created.MarketCap))
}
