package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/infrastructure/config"
	"github.com/pantrymatch/v1/internal/infrastructure/persistence/memory"
	redisrepo "github.com/pantrymatch/v1/internal/infrastructure/persistence/redis"
	"github.com/pantrymatch/v1/internal/ports/outbound"
)

// KeyPrefix namespaces every key this service writes
const KeyPrefix = "pantrymatch"

// Backend is a cache repository together with whatever must be closed on
// shutdown. Redis is nil for the in-memory backend.
type Backend struct {
	Repository outbound.CacheRepository
	Redis      redis.UniversalClient
	close      func() error
}

// Close releases the backend
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// New builds the Redis backend when enabled and the in-memory one otherwise
func New(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Backend, error) {
	if !cfg.Enabled {
		repo := memory.NewCacheRepository(time.Minute)
		logger.Info("Using in-memory cache")
		return &Backend{Repository: repo, close: repo.Close}, nil
	}

	client, err := NewRedisClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Repository: redisrepo.NewCacheRepository(client, KeyPrefix, logger.Named("redis-cache")),
		Redis:      client,
		close:      client.Close,
	}, nil
}

// BuildKey joins the components into a cache key
func BuildKey(components ...string) string {
	return strings.Join(components, ":")
}
