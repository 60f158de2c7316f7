package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Medals for the top three leaderboard places
var Medals = []string{"🥇", "🥈", "🥉"}

// CreateBrandedEmbed creates a basic embed with bot branding
func CreateBrandedEmbed(title, description string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text:    BotName,
			IconURL: BotFooterURL,
		},
	}
}

// ErrorEmbed is a red embed with a short explanation
func ErrorEmbed(title, description string) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("❌ "+title, description, ColorError)
}

// InsufficientFundsEmbed explains why a bet or purchase was refused
func InsufficientFundsEmbed(required, balance int64, what string) *discordgo.MessageEmbed {
	embed := CreateBrandedEmbed(
		"Not Enough Coins",
		fmt.Sprintf("You don't have enough coins for %s.\n**Your balance:** %s %s\n**Required:** %s %s",
			what,
			FormatChips(balance), CoinsEmoji,
			FormatChips(required), CoinsEmoji),
		ColorError,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{
			Name:   "How to Get More Coins",
			Value:  "💰 Cash out early with `/play` to build your balance.\nEvery coin you win also counts toward the `/leaderboard`.",
			Inline: false,
		},
	}
	return embed
}

// GameTimeoutEmbed reports a game that ended without a move
func GameTimeoutEmbed(bet int64) *discordgo.MessageEmbed {
	return CreateBrandedEmbed("⏰ Game Timeout", fmt.Sprintf(GameTimeoutMessage, FormatChips(bet)), ColorWarning)
}

// CreateTimeoutEmbed creates a generic timeout embed
func CreateTimeoutEmbed() *discordgo.MessageEmbed {
	return CreateBrandedEmbed("⏰ Timeout", TimeoutMessage, ColorWarning)
}

// BalanceEmbed shows balance, score and tier progress
func BalanceEmbed(username string, balance, score int64) *discordgo.MessageEmbed {
	tier, next := GetTier(score)
	embed := CreateBrandedEmbed(
		fmt.Sprintf("💰 %s's Balance", username),
		fmt.Sprintf("You have **%s** %s coins", FormatChips(balance), CoinsEmoji),
		tier.Color,
	)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "🏆 Score", Value: FormatNumber(score), Inline: true},
		{Name: "Tier", Value: fmt.Sprintf("%s %s", tier.Icon, tier.Name), Inline: true},
	}
	if next != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("Next: %s %s", next.Icon, next.Name),
			Value:  fmt.Sprintf("`%s` %s to go", ProgressBar(score, 10), FormatNumber(next.ScoreRequired-score)),
			Inline: false,
		})
	}
	return embed
}

// FormatChips formats a coin amount with thousands separators
func FormatChips(amount int64) string {
	return FormatNumber(amount)
}

// FormatNumber adds thousands separators
func FormatNumber(num int64) string {
	str := strconv.FormatInt(num, 10)
	sign := ""
	if num < 0 {
		sign, str = "-", str[1:]
	}
	if len(str) <= 3 {
		return sign + str
	}

	var result strings.Builder
	result.WriteString(sign)
	for i, r := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(r)
	}

	return result.String()
}

// RankLabel is a medal for the top three, otherwise "#n"
func RankLabel(rank int) string {
	if rank >= 1 && rank <= len(Medals) {
		return Medals[rank-1]
	}
	return fmt.Sprintf("#%d", rank)
}
