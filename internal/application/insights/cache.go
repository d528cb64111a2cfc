package insights

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix  = "insights:user:"
	DefaultCacheTTL = 5 * time.Minute
)

// Cache keeps computed reports in Redis. A write-back to a user's properties
// must call Invalidate.
type Cache struct {
	Rdb *redis.Client
	TTL time.Duration
}

func cacheKey(userID uuid.UUID) string {
	return cacheKeyPrefix + userID.String()
}

// Get returns the cached report, or nil on a miss.
func (c *Cache) Get(ctx context.Context, userID uuid.UUID) (*Report, error) {
	b, err := c.Rdb.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(b, &r); err != nil {
		// Unreadable entries are dropped and recomputed.
		_ = c.Rdb.Del(ctx, cacheKey(userID)).Err()
		return nil, nil
	}
	return &r, nil
}

func (c *Cache) Set(ctx context.Context, userID uuid.UUID, r *Report) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return c.Rdb.Set(ctx, cacheKey(userID), b, ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	return c.Rdb.Del(ctx, cacheKey(userID)).Err()
}
