package models

// Effect tags what an item does when consumed at game start
type Effect string

const (
	EffectRevealBomb      Effect = "reveal-bomb"
	EffectMultiplierBoost Effect = "multiplier-boost"
	EffectNone            Effect = "none"
)

// Valid reports whether e is a known effect tag
func (e Effect) Valid() bool {
	switch e {
	case EffectRevealBomb, EffectMultiplierBoost, EffectNone:
		return true
	}
	return false
}

// Item is a static catalog entry
type Item struct {
	Name   string `yaml:"name" json:"name"`
	Price  int64  `yaml:"price" json:"price"`
	Effect Effect `yaml:"effect" json:"effect"`
	Emoji  string `yaml:"emoji" json:"emoji"`
}
