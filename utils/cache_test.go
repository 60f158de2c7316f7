package utils

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bombsquad/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*MemoryStore
	gets   int
	putErr error
}

func (c *countingStore) Get(ctx context.Context, playerID int64) (*models.Account, error) {
	c.gets++
	return c.MemoryStore.Get(ctx, playerID)
}

func (c *countingStore) Put(ctx context.Context, playerID int64, acc *models.Account) error {
	if c.putErr != nil {
		return c.putErr
	}
	return c.MemoryStore.Put(ctx, playerID, acc)
}

func newCachedStore(t *testing.T) (*CachedStore, *countingStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backing := &countingStore{MemoryStore: NewMemoryStore(StartingBalance)}
	return NewCachedStore(backing, rdb, time.Minute), backing, mr
}

func TestCachedStoreFillsOnMiss(t *testing.T) {
	ctx := context.Background()
	store, backing, mr := newCachedStore(t)

	acc, err := store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(StartingBalance), acc.Balance)
	assert.Equal(t, 1, backing.gets)
	assert.True(t, mr.Exists("mines:account:5"))

	_, err = store.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, backing.gets, "second read should be served from redis")
}

func TestCachedStoreWriteThrough(t *testing.T) {
	ctx := context.Background()
	store, backing, mr := newCachedStore(t)

	acc := models.NewAccount(3, 0)
	acc.Balance = 640
	acc.Inventory = []string{"lucky charm"}
	require.NoError(t, store.Put(ctx, 3, acc))

	stored, err := backing.MemoryStore.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(640), stored.Balance)

	raw, err := mr.Get("mines:account:3")
	require.NoError(t, err)
	var cached models.Account
	require.NoError(t, json.Unmarshal([]byte(raw), &cached))
	assert.Equal(t, *acc, cached)
	assert.Greater(t, mr.TTL("mines:account:3"), time.Duration(0))
}

func TestCachedStoreFailedPutDropsEntry(t *testing.T) {
	ctx := context.Background()
	store, backing, mr := newCachedStore(t)

	_, err := store.Get(ctx, 8)
	require.NoError(t, err)
	require.True(t, mr.Exists("mines:account:8"))

	backing.putErr = errors.New("disk full")
	err = store.Put(ctx, 8, models.NewAccount(8, 1))
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, mr.Exists("mines:account:8"))
}

func TestCachedStoreCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store, backing, mr := newCachedStore(t)
	require.NoError(t, mr.Set("mines:account:2", "{not json"))

	acc, err := store.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(StartingBalance), acc.Balance)
	assert.Equal(t, 1, backing.gets)
}

func TestCachedStoreRedisDown(t *testing.T) {
	ctx := context.Background()
	store, backing, mr := newCachedStore(t)
	mr.Close()

	acc, err := store.Get(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), acc.PlayerID)
	assert.Equal(t, 1, backing.gets)

	require.NoError(t, store.Put(ctx, 4, acc))
}

func TestCachedStoreTopReadsBackingStore(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newCachedStore(t)

	acc := models.NewAccount(1, 0)
	acc.Score = 10
	require.NoError(t, store.Put(ctx, 1, acc))

	top, err := store.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(10), top[0].Score)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	rdb, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	assert.NoError(t, rdb.Close())
}
