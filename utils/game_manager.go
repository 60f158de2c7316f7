package utils

import (
	"sync"
	"time"

	"bombsquad/models"
)

// GameState is what the registry needs from a live game
type GameState interface {
	GetUserID() int64
	GetExpiresAt() time.Time
	// Cleanup is called when the sweeper drops a game whose loop never finished
	Cleanup()
}

// GameStateManager tracks live games by id and enforces one game per user
type GameStateManager struct {
	games  map[string]GameState
	byUser map[int64]string
	mutex  sync.RWMutex

	cleanupTicker *time.Ticker
	done          chan struct{}
	stopOnce      sync.Once
}

// GameStateMgr is the process-wide registry
var GameStateMgr = NewGameStateManager()

// NewGameStateManager creates an empty registry without a sweeper
func NewGameStateManager() *GameStateManager {
	return &GameStateManager{
		games:  make(map[string]GameState),
		byUser: make(map[int64]string),
		done:   make(chan struct{}),
	}
}

// StartCleanup sweeps expired games every interval until Close
func (gsm *GameStateManager) StartCleanup(interval time.Duration) {
	gsm.cleanupTicker = time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-gsm.cleanupTicker.C:
				gsm.CleanupExpired(time.Now())
			case <-gsm.done:
				return
			}
		}
	}()
}

// Close stops the sweeper
func (gsm *GameStateManager) Close() {
	gsm.stopOnce.Do(func() {
		if gsm.cleanupTicker != nil {
			gsm.cleanupTicker.Stop()
		}
		close(gsm.done)
	})
}

// RegisterGame claims the user's single game slot for gameID
func (gsm *GameStateManager) RegisterGame(gameID string, game GameState) error {
	gsm.mutex.Lock()
	defer gsm.mutex.Unlock()

	userID := game.GetUserID()
	if _, busy := gsm.byUser[userID]; busy {
		return models.ErrGameInProgress
	}
	gsm.games[gameID] = game
	gsm.byUser[userID] = gameID
	return nil
}

// UnregisterGame releases gameID. Unknown ids are ignored.
func (gsm *GameStateManager) UnregisterGame(gameID string) {
	gsm.mutex.Lock()
	defer gsm.mutex.Unlock()
	gsm.removeLocked(gameID)
}

func (gsm *GameStateManager) removeLocked(gameID string) (GameState, bool) {
	game, ok := gsm.games[gameID]
	if !ok {
		return nil, false
	}
	delete(gsm.games, gameID)
	if gsm.byUser[game.GetUserID()] == gameID {
		delete(gsm.byUser, game.GetUserID())
	}
	return game, true
}

// GetGame looks a game up by id
func (gsm *GameStateManager) GetGame(gameID string) (GameState, bool) {
	gsm.mutex.RLock()
	defer gsm.mutex.RUnlock()
	game, ok := gsm.games[gameID]
	return game, ok
}

// UserGame returns the id of the user's live game, if any
func (gsm *GameStateManager) UserGame(userID int64) (string, bool) {
	gsm.mutex.RLock()
	defer gsm.mutex.RUnlock()
	id, ok := gsm.byUser[userID]
	return id, ok
}

// ActiveGames returns the number of tracked games
func (gsm *GameStateManager) ActiveGames() int {
	gsm.mutex.RLock()
	defer gsm.mutex.RUnlock()
	return len(gsm.games)
}

// CleanupExpired drops every game whose deadline is before now and returns how many
func (gsm *GameStateManager) CleanupExpired(now time.Time) int {
	gsm.mutex.Lock()
	var expired []GameState
	for id, game := range gsm.games {
		if now.After(game.GetExpiresAt()) {
			if g, ok := gsm.removeLocked(id); ok {
				expired = append(expired, g)
			}
		}
	}
	gsm.mutex.Unlock()

	// Cleanup may call back into the registry
	for _, game := range expired {
		game.Cleanup()
	}
	if len(expired) > 0 {
		BotLogf("GAMES", "cleaned up %d expired games, %d still active", len(expired), gsm.ActiveGames())
	}
	return len(expired)
}
