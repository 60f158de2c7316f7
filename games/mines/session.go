package mines

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"bombsquad/models"
	"bombsquad/utils"

	"github.com/google/uuid"
)

// State is where a session is in its lifecycle
type State int

const (
	StateInitializing State = iota
	StateActive
	StateCashedOut
	StateBusted
	StateCleared
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateActive:
		return "active"
	case StateCashedOut:
		return "cashed out"
	case StateBusted:
		return "busted"
	case StateCleared:
		return "cleared"
	case StateTimedOut:
		return "timed out"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further events are accepted
func (s State) Terminal() bool {
	return s >= StateCashedOut
}

// Session is one wager on one board
type Session struct {
	ID          string
	PlayerID    int64
	Difficulty  Difficulty
	Bet         int64
	OriginalBet int64
	Multiplier  float64

	store utils.AccountStore
	board *Board
	state State
	notes []string

	// balance after the last commit; delta is the terminal balance change
	balance int64
	delta   int64
	// score after the last commit and before the terminal one
	score       int64
	scoreBefore int64

	mu sync.Mutex
}

// Wager is what a player asks to play
type Wager struct {
	// ID routes events to the session; a random one is generated when empty
	ID         string
	PlayerID   int64
	Bet        int64
	Difficulty string
}

// NewSession validates the wager, lays out the board, consumes the player's
// items and persists the account. The returned session is Active.
func NewSession(ctx context.Context, store utils.AccountStore, effects ItemEffects, rng *rand.Rand, w Wager) (*Session, error) {
	playerID, bet := w.PlayerID, w.Bet
	if bet < 1 {
		return nil, models.ErrInvalidBet
	}

	acc, err := store.Get(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	if bet > acc.Balance {
		return nil, fmt.Errorf("bet %d over balance %d: %w", bet, acc.Balance, models.ErrInsufficientFunds)
	}

	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	diff := ParseDifficulty(w.Difficulty)
	s := &Session{
		ID:          w.ID,
		PlayerID:    playerID,
		Difficulty:  diff,
		Bet:         bet,
		OriginalBet: bet,
		store:       store,
		board:       NewBoard(rng, diff.Bombs()),
		state:       StateInitializing,
	}

	// every held item is spent on this game, whatever the outcome
	s.Multiplier, s.notes = applyItems(acc.Inventory, effects, s.board, rng, diff.Multiplier())
	acc.Inventory = []string{}
	if err := store.Put(ctx, playerID, acc); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.balance = acc.Balance
	s.score, s.scoreBefore = acc.Score, acc.Score
	s.state = StateActive
	utils.BotLogf("MINES", "session %s started: player %d bet %d on %s (x%.2f)", s.ID, playerID, bet, diff, s.Multiplier)
	return s, nil
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Winnings is what cashing out now would pay: floor((bet - originalBet) * multiplier)
func (s *Session) Winnings() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winningsLocked()
}

func (s *Session) winningsLocked() int64 {
	return int64(math.Floor(float64(s.Bet-s.OriginalBet) * s.Multiplier))
}

// Select uncovers cell. A repeated pick returns ErrAlreadyPicked and changes nothing.
func (s *Session) Select(ctx context.Context, cell int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return models.ErrSessionOver
	}
	if cell < 0 || cell >= BoardSize {
		return fmt.Errorf("cell %d: %w", cell, models.ErrInvalidCell)
	}
	if s.board.Picked(cell) {
		return models.ErrAlreadyPicked
	}

	if s.board.pick(cell) {
		s.state = StateBusted
		return s.commitLocked(ctx, func(acc *models.Account) { acc.Lose(s.OriginalBet) })
	}

	s.Bet *= 2
	if s.board.Cleared() {
		s.state = StateCleared
		winnings := s.winningsLocked()
		return s.commitLocked(ctx, func(acc *models.Account) { acc.Win(winnings) })
	}
	return nil
}

// CashOut ends the game and credits the current winnings
func (s *Session) CashOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return models.ErrSessionOver
	}
	s.state = StateCashedOut
	winnings := s.winningsLocked()
	return s.commitLocked(ctx, func(acc *models.Account) { acc.Win(winnings) })
}

// Expire ends an Active session with no payout and no account change
func (s *Session) Expire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.Terminal() {
		s.state = StateTimedOut
		utils.BotLogf("MINES", "session %s timed out", s.ID)
	}
}

// commitLocked re-reads the account, applies the outcome and writes it back.
// The state is already terminal, so this runs at most once per session.
func (s *Session) commitLocked(ctx context.Context, apply func(*models.Account)) error {
	acc, err := s.store.Get(ctx, s.PlayerID)
	if err != nil {
		return fmt.Errorf("load account: %w", err)
	}
	before, scoreBefore := acc.Balance, acc.Score
	apply(acc)
	if err := s.store.Put(ctx, s.PlayerID, acc); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	s.balance = acc.Balance
	s.delta = acc.Balance - before
	s.score, s.scoreBefore = acc.Score, scoreBefore
	utils.BotLogf("MINES", "session %s %s: player %d balance %d -> %d", s.ID, s.state, s.PlayerID, before, acc.Balance)
	return nil
}

// Snapshot is a read-only view of a session for rendering
type Snapshot struct {
	ID          string
	PlayerID    int64
	Difficulty  Difficulty
	Bombs       int
	Bet         int64
	OriginalBet int64
	Multiplier  float64
	Winnings    int64
	State       State
	Marks       [BoardSize]Mark
	SafePicks   int
	Notes       []string
	Balance     int64
	// Delta is the committed balance change once the session is over
	Delta int64
	// Score and ScoreBefore bracket the terminal commit
	Score       int64
	ScoreBefore int64
	// BombCells is only filled in once the session is over
	BombCells []int
	// Rejected is the last refused event, if the render follows one
	Rejected error
}

// Snapshot captures the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.ID,
		PlayerID:    s.PlayerID,
		Difficulty:  s.Difficulty,
		Bombs:       s.board.BombCount(),
		Bet:         s.Bet,
		OriginalBet: s.OriginalBet,
		Multiplier:  s.Multiplier,
		Winnings:    s.winningsLocked(),
		State:       s.state,
		Marks:       s.board.Marks(),
		SafePicks:   s.board.SafePicks(),
		Notes:       append([]string(nil), s.notes...),
		Balance:     s.balance,
		Delta:       s.delta,
		Score:       s.score,
		ScoreBefore: s.scoreBefore,
	}
	if s.state.Terminal() {
		snap.BombCells = s.board.BombCells()
	}
	return snap
}
