package utils

import (
	"context"
	"sort"
	"sync"

	"bombsquad/models"
)

// MemoryStore keeps accounts in process memory. Used when no database is configured.
type MemoryStore struct {
	mu              sync.RWMutex
	accounts        map[int64]*models.Account
	startingBalance int64
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(startingBalance int64) *MemoryStore {
	return &MemoryStore{
		accounts:        make(map[int64]*models.Account),
		startingBalance: startingBalance,
	}
}

// Get returns a copy of the stored account or a default one
func (m *MemoryStore) Get(ctx context.Context, playerID int64) (*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[playerID]; ok {
		return acc.Clone(), nil
	}
	return models.NewAccount(playerID, m.startingBalance), nil
}

// Put stores a copy of acc
func (m *MemoryStore) Put(ctx context.Context, playerID int64, acc *models.Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cp := acc.Clone()
	cp.PlayerID = playerID
	m.mu.Lock()
	m.accounts[playerID] = cp
	m.mu.Unlock()
	return nil
}

// Top sorts by score descending, then player id
func (m *MemoryStore) Top(ctx context.Context, limit int) ([]*models.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]*models.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, acc.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Close is a no-op
func (m *MemoryStore) Close() error { return nil }
