package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bombsquad/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const accountKeyPrefix = "mines:account:"

// CachedStore is a read-through Redis cache in front of another AccountStore.
// The backing store stays authoritative; cache failures only cost a round trip.
type CachedStore struct {
	next AccountStore
	rdb  *redis.Client
	ttl  time.Duration
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// NewCachedStore wraps next with rdb. A non-positive ttl means entries never expire.
func NewCachedStore(next AccountStore, rdb *redis.Client, ttl time.Duration) *CachedStore {
	if ttl < 0 {
		ttl = 0
	}
	return &CachedStore{next: next, rdb: rdb, ttl: ttl}
}

func accountKey(playerID int64) string {
	return fmt.Sprintf("%s%d", accountKeyPrefix, playerID)
}

// Get checks Redis first and fills it from the backing store on a miss
func (c *CachedStore) Get(ctx context.Context, playerID int64) (*models.Account, error) {
	raw, err := c.rdb.Get(ctx, accountKey(playerID)).Bytes()
	switch {
	case err == nil:
		var acc models.Account
		if jerr := json.Unmarshal(raw, &acc); jerr == nil {
			if acc.Inventory == nil {
				acc.Inventory = []string{}
			}
			return &acc, nil
		}
		L().Warn("dropping unreadable cache entry", zap.Int64("player_id", playerID))
		c.rdb.Del(ctx, accountKey(playerID))
	case !errors.Is(err, redis.Nil):
		L().Warn("cache read failed", zap.Int64("player_id", playerID), zap.Error(err))
	}

	acc, err := c.next.Get(ctx, playerID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, playerID, acc)
	return acc, nil
}

// Put writes through to the backing store, then refreshes the cache
func (c *CachedStore) Put(ctx context.Context, playerID int64, acc *models.Account) error {
	if err := c.next.Put(ctx, playerID, acc); err != nil {
		// stale entries must not outlive a failed write
		c.rdb.Del(ctx, accountKey(playerID))
		return err
	}
	c.store(ctx, playerID, acc)
	return nil
}

// Top always reads the backing store
func (c *CachedStore) Top(ctx context.Context, limit int) ([]*models.Account, error) {
	return c.next.Top(ctx, limit)
}

// Close closes the Redis client and the backing store
func (c *CachedStore) Close() error {
	return errors.Join(c.rdb.Close(), c.next.Close())
}

func (c *CachedStore) store(ctx context.Context, playerID int64, acc *models.Account) {
	b, err := json.Marshal(acc)
	if err != nil {
		L().Warn("cache encode failed", zap.Int64("player_id", playerID), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, accountKey(playerID), b, c.ttl).Err(); err != nil {
		L().Warn("cache write failed", zap.Int64("player_id", playerID), zap.Error(err))
	}
}
