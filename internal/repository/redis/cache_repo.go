package redis

import (
	"context"

	"github.com/DRSN-tech/image-search/internal/cfg"
	"github.com/DRSN-tech/image-search/pkg/clients"
	"github.com/DRSN-tech/image-search/pkg/e"
	"github.com/DRSN-tech/image-search/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// CacheRepo кэширует уже проиндексированные контент-хэши, чтобы повторный прогон
// не ходил за проверкой существования в blob-хранилище. Источником истины кэш
// не является: промах или ошибка означают обычный путь через хранилище.
type CacheRepo struct {
	client *clients.RedisClient
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// IsSeen сообщает, помечен ли хэш как проиндексированный.
func (c *CacheRepo) IsSeen(ctx context.Context, hash string) (bool, error) {
	n, err := c.client.Client.Exists(ctx, c.seenKey(hash)).Result()
	if err != nil && err != r.Nil {
		return false, e.Wrap(whereami.WhereAmI(), err)
	}

	return n > 0, nil
}

// MarkSeen помечает хэш проиндексированным с TTL из конфигурации.
func (c *CacheRepo) MarkSeen(ctx context.Context, hash string) error {
	if err := c.client.Client.Set(ctx, c.seenKey(hash), 1, c.cfg.SeenTTL).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// seenKey формирует Redis-ключ для контент-хэша
func (c *CacheRepo) seenKey(hash string) string {
	return "seen:" + hash
}
