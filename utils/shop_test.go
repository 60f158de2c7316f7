package utils

import (
	"context"
	"errors"
	"testing"

	"bombsquad/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store AccountStore, id, balance int64, inventory ...string) {
	t.Helper()
	acc := models.NewAccount(id, balance)
	acc.Inventory = append(acc.Inventory, inventory...)
	require.NoError(t, store.Put(context.Background(), id, acc))
}

func TestBuy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(StartingBalance)
	seed(t, store, 1, 1200)

	acc, item, err := Buy(ctx, store, MustDefaultCatalog(), 1, "Bomb Detector")
	require.NoError(t, err)
	assert.Equal(t, "bomb detector", item.Name)
	assert.Equal(t, int64(700), acc.Balance)
	assert.Equal(t, []string{"bomb detector"}, acc.Inventory)

	stored, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, acc, stored)
	assert.Zero(t, stored.Score, "purchases do not touch the score")
}

func TestBuyInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(StartingBalance)

	acc, item, err := Buy(ctx, store, MustDefaultCatalog(), 1, "extra life")
	assert.ErrorIs(t, err, models.ErrInsufficientFunds)
	assert.Equal(t, int64(2000), item.Price)
	assert.Equal(t, int64(StartingBalance), acc.Balance)

	stored, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored.Inventory)
}

func TestBuyExactBalance(t *testing.T) {
	store := NewMemoryStore(StartingBalance)
	seed(t, store, 1, 750)

	acc, _, err := Buy(context.Background(), store, MustDefaultCatalog(), 1, "safety net")
	require.NoError(t, err)
	assert.Zero(t, acc.Balance)
}

func TestBuyUnknownItem(t *testing.T) {
	store := NewMemoryStore(StartingBalance)
	_, _, err := Buy(context.Background(), store, MustDefaultCatalog(), 1, "golden shovel")
	assert.ErrorIs(t, err, models.ErrUnknownItem)
}

func TestUseItem(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(StartingBalance)

	_, err := UseItem(ctx, store, 1, "lucky charm")
	assert.ErrorIs(t, err, models.ErrEmptyInventory)

	seed(t, store, 1, 0, "lucky charm", "bomb detector", "lucky charm")

	_, err = UseItem(ctx, store, 1, "extra life")
	assert.ErrorIs(t, err, models.ErrUnknownItem)

	acc, err := UseItem(ctx, store, 1, "Lucky Charm")
	require.NoError(t, err)
	assert.Equal(t, []string{"bomb detector", "lucky charm"}, acc.Inventory)

	stored, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, acc.Inventory, stored.Inventory)
}

func TestHeldItems(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(StartingBalance)

	_, err := HeldItems(ctx, store, 1)
	assert.ErrorIs(t, err, models.ErrEmptyInventory)

	seed(t, store, 1, 0, "safety net", "safety net", "lucky charm")
	counts, err := HeldItems(ctx, store, 1)
	require.NoError(t, err)
	assert.Equal(t, []models.ItemCount{{Name: "safety net", Quantity: 2}, {Name: "lucky charm", Quantity: 1}}, counts)
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Top(context.Context, int) ([]*models.Account, error) {
	return nil, errors.New("connection refused")
}

func TestLeaderboard(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(StartingBalance)

	top, err := Leaderboard(ctx, store, 10)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)

	for id := int64(1); id <= 30; id++ {
		acc := models.NewAccount(id, 0)
		acc.Score = id * 10
		require.NoError(t, store.Put(ctx, id, acc))
	}

	top, err = Leaderboard(ctx, store, 100)
	require.NoError(t, err)
	assert.Len(t, top, MaxLeaderboard)
	assert.Equal(t, int64(30), top[0].PlayerID)

	top, err = Leaderboard(ctx, store, 0)
	require.NoError(t, err)
	assert.Len(t, top, DefaultLeaderboard)

	_, err = Leaderboard(ctx, brokenStore{store}, 5)
	assert.ErrorContains(t, err, "connection refused")
}
