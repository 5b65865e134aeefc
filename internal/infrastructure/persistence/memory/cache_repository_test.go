package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrymatch/v1/internal/ports/outbound"
)

func TestCacheRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		repo := NewCacheRepository(0)
		defer repo.Close()

		require.NoError(t, repo.Set(ctx, "cuisines", []byte(`["Italian"]`), time.Minute))

		got, err := repo.Get(ctx, "cuisines")
		require.NoError(t, err)
		assert.Equal(t, []byte(`["Italian"]`), got)

		ok, err := repo.Exists(ctx, "cuisines")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("absent key is a miss", func(t *testing.T) {
		repo := NewCacheRepository(0)

		_, err := repo.Get(ctx, "nope")

		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})

	t.Run("expired key is a miss", func(t *testing.T) {
		// Arrange
		repo := NewCacheRepository(0)
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.Set(ctx, "k", []byte("v"), time.Second))

		// Act
		now = now.Add(2 * time.Second)
		_, err := repo.Get(ctx, "k")

		// Assert
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
		ok, _ := repo.Exists(ctx, "k")
		assert.False(t, ok)
	})

	t.Run("sweep drops expired entries", func(t *testing.T) {
		repo := NewCacheRepository(0)
		now := time.Now()
		repo.now = func() time.Time { return now }
		require.NoError(t, repo.Set(ctx, "old", []byte("v"), time.Second))
		require.NoError(t, repo.Set(ctx, "fresh", []byte("v"), time.Hour))

		now = now.Add(time.Minute)
		repo.sweep()

		assert.NotContains(t, repo.data, "old")
		assert.Contains(t, repo.data, "fresh")
	})

	t.Run("delete", func(t *testing.T) {
		repo := NewCacheRepository(0)
		require.NoError(t, repo.Set(ctx, "k", []byte("v"), 0))

		require.NoError(t, repo.Delete(ctx, "k"))

		_, err := repo.Get(ctx, "k")
		assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	})
}
