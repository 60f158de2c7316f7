package utils

import (
	"context"

	"bombsquad/models"
)

// AccountStore persists player accounts. Writes are last-write-wins per player.
type AccountStore interface {
	// Get returns the stored account, or a fresh default account if none exists.
	Get(ctx context.Context, playerID int64) (*models.Account, error)
	// Put replaces the stored account for playerID.
	Put(ctx context.Context, playerID int64, acc *models.Account) error
	// Top returns up to limit accounts ordered by score, highest first.
	Top(ctx context.Context, limit int) ([]*models.Account, error)
	Close() error
}

// Accounts is the store the bot runs against, set once in main
var Accounts AccountStore = NewMemoryStore(StartingBalance)

// ClampLeaderboardLimit keeps a requested size within what one embed can show
func ClampLeaderboardLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboard
	}
	if limit > MaxLeaderboard {
		return MaxLeaderboard
	}
	return limit
}
