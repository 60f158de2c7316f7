package mines

import (
	"fmt"
	"math/rand"

	"bombsquad/models"
	"bombsquad/utils"
)

// luckyBoost is applied once per multiplier-boost item and compounds
const luckyBoost = 1.10

// ItemEffects resolves what a held item does. *utils.Catalog satisfies it.
type ItemEffects interface {
	Effect(name string) models.Effect
	Emoji(name string) string
}

// applyItems consumes every held item in order and returns the adjusted
// multiplier plus one note per item that did something
func applyItems(inventory []string, effects ItemEffects, board *Board, rng *rand.Rand, multiplier float64) (float64, []string) {
	var notes []string
	for _, name := range inventory {
		switch effects.Effect(name) {
		case models.EffectRevealBomb:
			cells := board.BombCells()
			if len(cells) == 0 {
				continue
			}
			cell := cells[rng.Intn(len(cells))]
			board.reveal(cell)
			notes = append(notes, fmt.Sprintf("Your %s %s revealed a bomb at position %d!", utils.ItemTitle(name), effects.Emoji(name), cell+1))
		case models.EffectMultiplierBoost:
			multiplier *= luckyBoost
			notes = append(notes, fmt.Sprintf("Your %s %s increased your multiplier by 10%%!", utils.ItemTitle(name), effects.Emoji(name)))
		}
	}
	return multiplier, notes
}
