package mines

import (
	"strings"

	"bombsquad/utils"
)

// Difficulty selects the bomb count and the base payout multiplier
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

type difficultySettings struct {
	Bombs      int
	Multiplier float64
}

var difficulties = map[Difficulty]difficultySettings{
	Easy:   {Bombs: 1, Multiplier: 1.5},
	Normal: {Bombs: 2, Multiplier: 2.0},
	Hard:   {Bombs: 3, Multiplier: 3.0},
}

// ParseDifficulty is case-insensitive; anything unrecognized plays as Normal
func ParseDifficulty(raw string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := difficulties[d]; ok {
		return d
	}
	if raw != "" {
		utils.BotLogf("MINES", "unknown difficulty %q, playing normal", raw)
	}
	return Normal
}

// Bombs returns the number of bombs placed at this difficulty
func (d Difficulty) Bombs() int { return difficulties[d].Bombs }

// Multiplier returns the base payout multiplier at this difficulty
func (d Difficulty) Multiplier() float64 { return difficulties[d].Multiplier }

// Title is the capitalized name used in embeds
func (d Difficulty) Title() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}
