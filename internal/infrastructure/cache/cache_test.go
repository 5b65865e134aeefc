package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/infrastructure/config"
)

func TestNew_DisabledRedisUsesMemory(t *testing.T) {
	// Arrange
	ctx := context.Background()

	// Act
	backend, err := New(ctx, config.RedisConfig{Enabled: false}, zap.NewNop())

	// Assert
	require.NoError(t, err)
	defer backend.Close()
	assert.Nil(t, backend.Redis)

	require.NoError(t, backend.Repository.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := backend.Repository.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestNew_UnreachableRedisFails(t *testing.T) {
	cfg := config.RedisConfig{
		Enabled:     true,
		Host:        "127.0.0.1",
		Port:        1,
		DialTimeout: 100 * time.Millisecond,
	}

	_, err := New(context.Background(), cfg, zap.NewNop())

	assert.Error(t, err)
}

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "catalog:cuisines", BuildKey("catalog", "cuisines"))
}
