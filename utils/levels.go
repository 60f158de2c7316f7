package utils

import "strings"

// Tier is a score band shown next to a player's balance
type Tier struct {
	Name          string
	Icon          string
	ScoreRequired int64
	Color         int
}

// Tiers is ordered by ScoreRequired ascending
var Tiers = []Tier{
	{"Rookie", "🥉", 0, 0xcd7f32},
	{"Sapper", "🥈", 500, 0xc0c0c0},
	{"Demolitionist", "🥇", 2500, 0xffd700},
	{"Bomb Tech", "💣", 10000, 0x22a7f0},
	{"Defuser", "🧯", 50000, 0x9b59b6},
	{"Legend", "🌟", 250000, 0xf1c40f},
}

// TierIndex returns the position in Tiers reached at score
func TierIndex(score int64) int {
	idx := 0
	for i, t := range Tiers {
		if score < t.ScoreRequired {
			break
		}
		idx = i
	}
	return idx
}

// GetTier returns the highest tier reached at score and the next one, if any
func GetTier(score int64) (Tier, *Tier) {
	idx := TierIndex(score)
	if idx+1 < len(Tiers) {
		next := Tiers[idx+1]
		return Tiers[idx], &next
	}
	return Tiers[idx], nil
}

// ProgressBar draws how far score is between the current tier and the next
func ProgressBar(score int64, length int) string {
	cur, next := GetTier(score)
	if next == nil {
		return strings.Repeat("█", length)
	}

	progress := float64(score-cur.ScoreRequired) / float64(next.ScoreRequired-cur.ScoreRequired)
	progress = min(max(progress, 0), 1)

	filled := int(progress * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}
