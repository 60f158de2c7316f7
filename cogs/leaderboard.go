package cogs

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"bombsquad/models"
	"bombsquad/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// HandleLeaderboardCommand shows the top players by score
func HandleLeaderboardCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	limit := utils.DefaultLeaderboard
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "limit" {
			limit = int(opt.IntValue())
		}
	}

	if err := utils.DeferInteractionResponse(s, i, false); err != nil {
		return
	}

	top, err := utils.Leaderboard(context.Background(), utils.Accounts, limit)
	if err != nil {
		utils.L().Error("leaderboard failed", zap.Int("limit", limit), zap.Error(err))
		_ = utils.EditOriginalInteraction(s, i, utils.ErrorEmbed("Leaderboard", utils.StoreErrorMessage), nil)
		return
	}

	names := make(map[int64]string, len(top))
	for _, acc := range top {
		names[acc.PlayerID] = displayName(s, acc.PlayerID)
	}
	_ = utils.EditOriginalInteraction(s, i, leaderboardEmbed(top, names, utils.ClampLeaderboardLimit(limit)), nil)
}

// displayName resolves a player's username, falling back to a mention-free label
func displayName(s *discordgo.Session, playerID int64) string {
	id := strconv.FormatInt(playerID, 10)
	if u, err := s.User(id); err == nil && u != nil {
		return u.Username
	}
	return "Player " + id
}

func leaderboardEmbed(top []*models.Account, names map[int64]string, limit int) *discordgo.MessageEmbed {
	embed := utils.CreateBrandedEmbed(fmt.Sprintf("🏆 Top %d Players", limit), "", utils.ColorGold)
	if len(top) == 0 {
		embed.Description = "No players yet. Be the first with `/play`!"
		return embed
	}

	lines := make([]string, 0, len(top))
	for idx, acc := range top {
		name, ok := names[acc.PlayerID]
		if !ok {
			name = "Player " + strconv.FormatInt(acc.PlayerID, 10)
		}
		tier, _ := utils.GetTier(acc.Score)
		lines = append(lines, fmt.Sprintf("%s **%s** %s %s points",
			utils.RankLabel(idx+1), name, tier.Icon, utils.FormatNumber(acc.Score)))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}
