package mines

import "math/rand"

// BoardSize is the number of cells on the 3x3 board
const BoardSize = 9

// Mark is what the player sees on a cell
type Mark int

const (
	MarkHidden Mark = iota
	MarkBomb
	MarkSafe
	MarkExploded
)

// Emoji returns the display glyph for m
func (m Mark) Emoji() string {
	switch m {
	case MarkBomb:
		return "💣"
	case MarkSafe:
		return "✅"
	case MarkExploded:
		return "💥"
	default:
		return "⬜"
	}
}

// Board holds the hidden bomb layout and what has been revealed so far
type Board struct {
	bombs     [BoardSize]bool
	marks     [BoardSize]Mark
	picked    [BoardSize]bool
	bombCount int
	safePicks int
}

// NewBoard places bombCount bombs uniformly without replacement
func NewBoard(rng *rand.Rand, bombCount int) *Board {
	bombCount = min(max(bombCount, 0), BoardSize)
	b := &Board{bombCount: bombCount}
	for _, cell := range rng.Perm(BoardSize)[:bombCount] {
		b.bombs[cell] = true
	}
	return b
}

func (b *Board) IsBomb(cell int) bool { return b.bombs[cell] }
func (b *Board) Picked(cell int) bool { return b.picked[cell] }
func (b *Board) Mark(cell int) Mark { return b.marks[cell] }
func (b *Board) Marks() [BoardSize]Mark { return b.marks }
func (b *Board) BombCount() int { return b.bombCount }
func (b *Board) SafePicks() int { return b.safePicks }

// BombCells lists bomb positions in ascending order
func (b *Board) BombCells() []int {
	cells := make([]int, 0, b.bombCount)
	for i, bomb := range b.bombs {
		if bomb {
			cells = append(cells, i)
		}
	}
	return cells
}

// Cleared reports whether every safe cell has been picked
func (b *Board) Cleared() bool {
	return b.safePicks == BoardSize-b.bombCount
}

// reveal marks a bomb as seen before play starts
func (b *Board) reveal(cell int) {
	if b.marks[cell] == MarkHidden {
		b.marks[cell] = MarkBomb
	}
}

// pick uncovers cell and reports whether it was a bomb. Bomb picks are not counted as picked.
func (b *Board) pick(cell int) bool {
	if b.bombs[cell] {
		b.marks[cell] = MarkExploded
		return true
	}
	b.marks[cell] = MarkSafe
	b.picked[cell] = true
	b.safePicks++
	return false
}
