package utils

import (
	"context"
	"fmt"

	"bombsquad/models"
)

// Buy debits the item's price and adds one unit to the player's inventory
func Buy(ctx context.Context, store AccountStore, catalog *Catalog, playerID int64, name string) (*models.Account, models.Item, error) {
	item, ok := catalog.Lookup(name)
	if !ok {
		return nil, models.Item{}, fmt.Errorf("%q: %w", name, models.ErrUnknownItem)
	}

	acc, err := store.Get(ctx, playerID)
	if err != nil {
		return nil, item, fmt.Errorf("load account: %w", err)
	}
	if !acc.CanAfford(item.Price) {
		return acc, item, models.ErrInsufficientFunds
	}

	acc.Balance -= item.Price
	acc.AddItem(item.Name)
	if err := store.Put(ctx, playerID, acc); err != nil {
		return nil, item, fmt.Errorf("save account: %w", err)
	}
	BotLogf("shop", "player %d bought %s for %d", playerID, item.Name, item.Price)
	return acc, item, nil
}

// UseItem removes one held unit of name, marking it active for the next game
func UseItem(ctx context.Context, store AccountStore, playerID int64, name string) (*models.Account, error) {
	acc, err := store.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if len(acc.Inventory) == 0 {
		return acc, models.ErrEmptyInventory
	}
	if !acc.RemoveItem(NormalizeItemName(name)) {
		return acc, fmt.Errorf("%q: %w", name, models.ErrUnknownItem)
	}
	if err := store.Put(ctx, playerID, acc); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	BotLogf("shop", "player %d used %s", playerID, NormalizeItemName(name))
	return acc, nil
}

// HeldItems lists the distinct items a player can use, or ErrEmptyInventory
func HeldItems(ctx context.Context, store AccountStore, playerID int64) ([]models.ItemCount, error) {
	acc, err := store.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if len(acc.Inventory) == 0 {
		return nil, models.ErrEmptyInventory
	}
	return acc.ItemCounts(), nil
}

// Leaderboard returns up to limit accounts by score; limit is clamped to 1..MaxLeaderboard
func Leaderboard(ctx context.Context, store AccountStore, limit int) ([]*models.Account, error) {
	top, err := store.Top(ctx, ClampLeaderboardLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	if top == nil {
		top = []*models.Account{}
	}
	return top, nil
}
