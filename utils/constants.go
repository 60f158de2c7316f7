package utils

import "time"

// General Configuration
const (
	BotName      = "Bomb Squad"
	BotColor     = 0x5865F2
	BotFooterURL = "https://res.cloudinary.com/dfoeiotel/image/upload/v1753043816/HRC-final_ymqwfy.png"
)

// Economy
const (
	StartingBalance     = 100
	DefaultBet          = 10
	DefaultLeaderboard  = 10
	MaxLeaderboard      = 25
	CoinsEmoji          = "🪙"
	DefaultPlayTimeout  = 60 * time.Second
	DefaultSelectWindow = 30 * time.Second
)

// Embed colors
const (
	ColorSuccess = 0x2ECC71
	ColorError   = 0xE74C3C
	ColorWarning = 0xF39C12
	ColorPlaying = 0x3498DB
	ColorGold    = 0xFFD700
)

// UI Messages
const (
	TimeoutMessage      = "You did not respond in time. The interaction has timed out."
	GameTimeoutMessage  = "Game timed out. Your bet of %s coins was not taken."
	SelectTimeoutNotice = "Item selection timed out."
	StoreErrorMessage   = "❌ Error accessing player data. Please try again later."
)
