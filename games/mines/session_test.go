package mines

import (
	"context"
	"math/rand"
	"testing"

	"bombsquad/models"
	"bombsquad/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlayer int64 = 42

func seedAccount(t *testing.T, store utils.AccountStore, balance, score int64, items ...string) {
	t.Helper()
	acc := models.NewAccount(testPlayer, balance)
	acc.Score = score
	acc.Inventory = append(acc.Inventory, items...)
	require.NoError(t, store.Put(context.Background(), testPlayer, acc))
}

func startSession(t *testing.T, store utils.AccountStore, bet int64, difficulty string) *Session {
	t.Helper()
	s, err := NewSession(context.Background(), store, utils.MustDefaultCatalog(), rand.New(rand.NewSource(11)), Wager{
		PlayerID:   testPlayer,
		Bet:        bet,
		Difficulty: difficulty,
	})
	require.NoError(t, err)
	require.Equal(t, StateActive, s.State())
	return s
}

func account(t *testing.T, store utils.AccountStore) *models.Account {
	t.Helper()
	acc, err := store.Get(context.Background(), testPlayer)
	require.NoError(t, err)
	return acc
}

func firstBomb(s *Session) int {
	return s.board.BombCells()[0]
}

func TestNewSessionRejectsInvalidBet(t *testing.T) {
	store := utils.NewMemoryStore(100)
	for _, bet := range []int64{0, -5} {
		_, err := NewSession(context.Background(), store, utils.MustDefaultCatalog(), rand.New(rand.NewSource(1)), Wager{PlayerID: testPlayer, Bet: bet})
		assert.ErrorIs(t, err, models.ErrInvalidBet)
	}
	top, err := store.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, top, "a rejected bet must not create an account")
}

func TestNewSessionInsufficientFunds(t *testing.T) {
	store := utils.NewMemoryStore(100)
	seedAccount(t, store, 50, 7, "lucky charm")

	_, err := NewSession(context.Background(), store, utils.MustDefaultCatalog(), rand.New(rand.NewSource(1)), Wager{PlayerID: testPlayer, Bet: 60})
	require.ErrorIs(t, err, models.ErrInsufficientFunds)

	acc := account(t, store)
	assert.Equal(t, int64(50), acc.Balance)
	assert.Equal(t, int64(7), acc.Score)
	assert.Equal(t, []string{"lucky charm"}, acc.Inventory, "items are not consumed when the bet is refused")
}

func TestNewSessionUsesGivenID(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s, err := NewSession(context.Background(), store, utils.MustDefaultCatalog(), rand.New(rand.NewSource(1)), Wager{ID: "abc", PlayerID: testPlayer, Bet: 1})
	require.NoError(t, err)
	assert.Equal(t, "abc", s.ID)

	other := startSession(t, store, 1, "easy")
	assert.NotEmpty(t, other.ID)
	assert.NotEqual(t, "abc", other.ID)
}

func TestNewSessionPersistsDefaultAccount(t *testing.T) {
	store := utils.NewMemoryStore(100)
	startSession(t, store, 10, "normal")

	top, err := store.Top(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(100), top[0].Balance, "the bet is only at risk, not debited up front")
}

func TestCashOutImmediatelyPaysNothing(t *testing.T) {
	for _, d := range []string{"easy", "normal", "hard"} {
		store := utils.NewMemoryStore(100)
		s := startSession(t, store, 25, d)

		require.NoError(t, s.CashOut(context.Background()))
		snap := s.Snapshot()
		assert.Equal(t, StateCashedOut, snap.State)
		assert.Zero(t, snap.Winnings)
		assert.Zero(t, snap.Delta)

		acc := account(t, store)
		assert.Equal(t, int64(100), acc.Balance)
		assert.Zero(t, acc.Score)
	}
}

func TestSafePicksDoubleBetAndCashOut(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "normal")

	var bets []int64
	for k := 0; k < 3; k++ {
		require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))
		bets = append(bets, s.Bet)
	}
	assert.Equal(t, []int64{20, 40, 80}, bets)
	assert.Equal(t, int64(140), s.Winnings())

	require.NoError(t, s.CashOut(context.Background()))
	snap := s.Snapshot()
	assert.Equal(t, StateCashedOut, snap.State)
	assert.Equal(t, int64(140), snap.Delta)
	assert.Equal(t, int64(240), snap.Balance)

	assert.Equal(t, int64(0), snap.ScoreBefore)
	assert.Equal(t, int64(140), snap.Score)

	acc := account(t, store)
	assert.Equal(t, int64(240), acc.Balance)
	assert.Equal(t, int64(140), acc.Score)
}

func TestBetAfterKSafePicks(t *testing.T) {
	store := utils.NewMemoryStore(1000)
	s := startSession(t, store, 7, "easy")
	for k := 1; k <= 5; k++ {
		require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))
		assert.Equal(t, int64(7)<<k, s.Bet)
		assert.Equal(t, int64(7), s.OriginalBet)
	}
}

func TestAlreadyPickedChangesNothing(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "hard")

	cell := firstSafe(s.board)
	require.NoError(t, s.Select(context.Background(), cell))
	before := s.Snapshot()
	accBefore := account(t, store)

	err := s.Select(context.Background(), cell)
	require.ErrorIs(t, err, models.ErrAlreadyPicked)

	after := s.Snapshot()
	assert.Equal(t, before.Bet, after.Bet)
	assert.Equal(t, before.SafePicks, after.SafePicks)
	assert.Equal(t, before.Marks, after.Marks)
	assert.Equal(t, StateActive, after.State)
	assert.Equal(t, accBefore, account(t, store))
}

func TestInvalidCell(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "normal")

	for _, cell := range []int{-1, BoardSize, 100} {
		assert.ErrorIs(t, s.Select(context.Background(), cell), models.ErrInvalidCell)
	}
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, int64(10), s.Bet)
}

func TestBombPickLosesOriginalBet(t *testing.T) {
	tests := []struct {
		name                 string
		balance, score, bet  int64
		wantBalance, wantScr int64
	}{
		{"covered", 100, 50, 10, 90, 40},
		{"score clamps", 100, 3, 10, 90, 0},
		{"all in", 30, 0, 30, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := utils.NewMemoryStore(100)
			seedAccount(t, store, tt.balance, tt.score)
			s := startSession(t, store, tt.bet, "normal")

			// grow the displayed bet first; the loss is still the original bet
			require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))
			require.NoError(t, s.Select(context.Background(), firstBomb(s)))

			snap := s.Snapshot()
			assert.Equal(t, StateBusted, snap.State)
			assert.Equal(t, MarkExploded, snap.Marks[firstBomb(s)])
			assert.Equal(t, 1, snap.SafePicks)
			assert.ElementsMatch(t, s.board.BombCells(), snap.BombCells)

			acc := account(t, store)
			assert.Equal(t, tt.wantBalance, acc.Balance)
			assert.Equal(t, tt.wantScr, acc.Score)
		})
	}
}

func TestClearingBoardPaysLikeCashOut(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "easy")

	for i := 0; i < BoardSize-1; i++ {
		require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))
	}

	snap := s.Snapshot()
	assert.Equal(t, StateCleared, snap.State)
	assert.Equal(t, int64(10*256), snap.Bet)
	// floor((2560 - 10) * 1.5)
	assert.Equal(t, int64(3825), snap.Delta)

	acc := account(t, store)
	assert.Equal(t, int64(3925), acc.Balance)
	assert.Equal(t, int64(3825), acc.Score)
}

func TestEventsAfterTerminalAreRejected(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "normal")
	require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))
	require.NoError(t, s.CashOut(context.Background()))
	acc := account(t, store)

	assert.ErrorIs(t, s.CashOut(context.Background()), models.ErrSessionOver)
	assert.ErrorIs(t, s.Select(context.Background(), firstSafe(s.board)), models.ErrSessionOver)
	s.Expire()
	assert.Equal(t, StateCashedOut, s.State())
	assert.Equal(t, acc, account(t, store), "only one commit per session")
}

func TestExpireLeavesAccountAlone(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "normal")
	require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))

	s.Expire()
	assert.Equal(t, StateTimedOut, s.State())
	acc := account(t, store)
	assert.Equal(t, int64(100), acc.Balance)
	assert.Zero(t, acc.Score)
}

func TestTerminalCommitRereadsAccount(t *testing.T) {
	store := utils.NewMemoryStore(100)
	s := startSession(t, store, 10, "normal")
	require.NoError(t, s.Select(context.Background(), firstSafe(s.board)))

	// a purchase lands while the game is running
	acc := account(t, store)
	acc.Balance -= 50
	acc.AddItem("bomb detector")
	require.NoError(t, store.Put(context.Background(), testPlayer, acc))

	require.NoError(t, s.CashOut(context.Background()))
	acc = account(t, store)
	assert.Equal(t, int64(50+20), acc.Balance)
	assert.Equal(t, []string{"bomb detector"}, acc.Inventory)
}

func TestItemsConsumedAtStart(t *testing.T) {
	store := utils.NewMemoryStore(100)
	seedAccount(t, store, 100, 0, "bomb detector", "lucky charm", "safety net", "lucky charm")

	s := startSession(t, store, 10, "normal")
	snap := s.Snapshot()

	assert.InDelta(t, 2.0*1.1*1.1, snap.Multiplier, 1e-9)
	assert.Len(t, snap.Notes, 3)
	assert.Contains(t, snap.Notes[0], "Bomb Detector")

	revealed := 0
	for i, m := range snap.Marks {
		if m == MarkBomb {
			revealed++
			assert.True(t, s.board.IsBomb(i), "only bombs get revealed")
		}
	}
	assert.Equal(t, 1, revealed)
	assert.Nil(t, snap.BombCells, "the layout stays hidden while playing")

	acc := account(t, store)
	assert.Empty(t, acc.Inventory)
	assert.Equal(t, int64(100), acc.Balance)
}

func TestRevealedBombStillExplodes(t *testing.T) {
	store := utils.NewMemoryStore(100)
	seedAccount(t, store, 100, 0, "bomb detector")
	s := startSession(t, store, 10, "easy")

	bomb := firstBomb(s)
	require.Equal(t, MarkBomb, s.board.Mark(bomb))
	require.NoError(t, s.Select(context.Background(), bomb))
	assert.Equal(t, StateBusted, s.State())
	assert.Equal(t, int64(90), account(t, store).Balance)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "cashed out", StateCashedOut.String())
	assert.False(t, StateActive.Terminal())
	for _, st := range []State{StateCashedOut, StateBusted, StateCleared, StateTimedOut} {
		assert.True(t, st.Terminal(), st.String())
	}
}
