package mines

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"bombsquad/models"
	"bombsquad/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	customIDPrefix = "mines_"
	inboxSize      = 4
)

// game is one /play invocation: the registry entry and the Discord side of the dispatcher
type game struct {
	*Inbox
	id        string
	userID    int64
	s         *discordgo.Session
	origin    *discordgo.InteractionCreate
	expiresAt time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (g *game) GetUserID() int64        { return g.userID }
func (g *game) GetExpiresAt() time.Time { return g.expiresAt }

// Cleanup stops a loop that outlived its deadline; Run then expires the session
func (g *game) Cleanup() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		g.cancel()
	}
}

// Render edits the original /play response with the current board
func (g *game) Render(ctx context.Context, snap Snapshot) error {
	embed := createMinesEmbed(snap)
	if snap.State.Terminal() {
		if tier, ok := utils.ShouldAnnounceTierUp(snap.PlayerID, snap.ScoreBefore, snap.Score); ok {
			addTierUpField(embed, tier)
		}
	}
	return utils.EditOriginalWithRetry(g.s, g.origin, embed, buildComponents(snap), 2)
}

func addTierUpField(embed *discordgo.MessageEmbed, tier utils.Tier) {
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "🎉 Tier Up!",
		Value: fmt.Sprintf("You reached %s **%s**. Check `/balance` for your next goal.", tier.Icon, tier.Name),
	})
	embed.Color = tier.Color
}

// RegisterPlayCommand registers the /play command
func RegisterPlayCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Bet coins on a 3x3 board and dodge the bombs.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "bet",
				Description: fmt.Sprintf("Coins to bet (default %d)", utils.DefaultBet),
				Required:    false,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "difficulty",
				Description: "Easy: 1 bomb x1.5, Normal: 2 bombs x2, Hard: 3 bombs x3",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Easy", Value: string(Easy)},
					{Name: "Normal", Value: string(Normal)},
					{Name: "Hard", Value: string(Hard)},
				},
			},
		},
	}
}

// HandlePlayCommand handles the /play slash command
func HandlePlayCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uid, ok := playerID(i)
	if !ok {
		return
	}

	bet := int64(utils.DefaultBet)
	difficulty := string(Normal)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "bet":
			bet = opt.IntValue()
		case "difficulty":
			difficulty = opt.StringValue()
		}
	}

	// One game per user: claim the slot before any account is touched
	playTimeout := utils.Settings.PlayTimeout
	g := &game{
		Inbox:     NewInbox(inboxSize),
		id:        uuid.NewString(),
		userID:    uid,
		s:         s,
		origin:    i,
		expiresAt: time.Now().Add(playTimeout * (BoardSize + 2)),
	}
	if err := utils.GameStateMgr.RegisterGame(g.id, g); err != nil {
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Game in Progress", "You already have an active game. Finish it first!"), nil, true)
		return
	}

	if err := utils.DeferInteractionResponse(s, i, false); err != nil {
		utils.GameStateMgr.UnregisterGame(g.id)
		return
	}

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	session, err := NewSession(ctx, utils.Accounts, utils.Items, rng, Wager{
		ID:         g.id,
		PlayerID:   uid,
		Bet:        bet,
		Difficulty: difficulty,
	})
	if err != nil {
		utils.GameStateMgr.UnregisterGame(g.id)
		_ = utils.EditOriginalInteraction(s, i, startErrorEmbed(ctx, uid, bet, err), nil)
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.mu.Lock()
	g.cancel = cancel
	g.mu.Unlock()

	go func() {
		defer cancel()
		defer utils.GameStateMgr.UnregisterGame(g.id)
		final, err := Run(runCtx, session, g, playTimeout)
		if err != nil {
			_ = utils.TryEphemeralFollowup(s, i, utils.StoreErrorMessage)
		}
		utils.L().Info("game finished",
			zap.String("session", final.ID),
			zap.Int64("player_id", uid),
			zap.Stringer("state", final.State),
			zap.Int64("delta", final.Delta))
	}()
}

func startErrorEmbed(ctx context.Context, uid, bet int64, err error) *discordgo.MessageEmbed {
	switch {
	case errors.Is(err, models.ErrInvalidBet):
		return utils.ErrorEmbed("Invalid Bet", "Minimum bet is 1 coin.")
	case errors.Is(err, models.ErrInsufficientFunds):
		var balance int64
		if acc, gerr := utils.Accounts.Get(ctx, uid); gerr == nil {
			balance = acc.Balance
		}
		return utils.InsufficientFundsEmbed(bet, balance, "this bet")
	default:
		utils.L().Error("failed to start game", zap.Int64("player_id", uid), zap.Error(err))
		return utils.ErrorEmbed("Bomb Squad", utils.StoreErrorMessage)
	}
}

// HandleMinesButton routes tile and cash-out presses to the owning game
func HandleMinesButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	gameID, ev, ok := parseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	state, found := utils.GameStateMgr.GetGame(gameID)
	g, isMines := state.(*game)
	if !found || !isMines {
		_ = utils.RespondEphemeral(s, i, "This game is over. Start a new one with `/play`.")
		return
	}
	if uid, ok := playerID(i); !ok || uid != g.userID {
		_ = utils.RespondEphemeral(s, i, "This isn't your game.")
		return
	}

	// The loop redraws through the original response, so the press only needs an ack
	if err := utils.AcknowledgeComponentInteraction(s, i); err != nil {
		utils.BotLogf("MINES", "ack failed for game %s: %v", gameID, err)
	}
	if !g.Push(ev) {
		utils.BotLogf("MINES", "dropped input for game %s, inbox full", gameID)
	}
}

func playerID(i *discordgo.InteractionCreate) (int64, bool) {
	user := utils.InteractionUser(i)
	if user == nil {
		return 0, false
	}
	uid, err := utils.ParseUserID(user.ID)
	return uid, err == nil
}

func tileCustomID(gameID string, cell int) string {
	return fmt.Sprintf("%s%s_tile_%d", customIDPrefix, gameID, cell)
}

func cashoutCustomID(gameID string) string {
	return customIDPrefix + gameID + "_cashout"
}

// parseCustomID understands mines_<game>_tile_<cell> and mines_<game>_cashout
func parseCustomID(cid string) (string, Event, bool) {
	if !strings.HasPrefix(cid, customIDPrefix) {
		return "", Event{}, false
	}
	parts := strings.Split(strings.TrimPrefix(cid, customIDPrefix), "_")
	switch {
	case len(parts) == 2 && parts[1] == "cashout" && parts[0] != "":
		return parts[0], Event{Kind: EventCashOut}, true
	case len(parts) == 3 && parts[1] == "tile" && parts[0] != "":
		cell, err := strconv.Atoi(parts[2])
		if err != nil {
			return "", Event{}, false
		}
		return parts[0], Event{Kind: EventSelect, Cell: cell}, true
	}
	return "", Event{}, false
}

// buildComponents draws the 3x3 grid and the cash-out row
func buildComponents(snap Snapshot) []discordgo.MessageComponent {
	over := snap.State.Terminal()
	marks := snap.Marks
	if over {
		for _, cell := range snap.BombCells {
			if marks[cell] == MarkHidden {
				marks[cell] = MarkBomb
			}
		}
	}

	rows := make([]discordgo.MessageComponent, 0, 4)
	for r := 0; r < 3; r++ {
		btns := make([]discordgo.MessageComponent, 0, 3)
		for c := 0; c < 3; c++ {
			cell := r*3 + c
			btn := discordgo.Button{
				CustomID: tileCustomID(snap.ID, cell),
				Style:    discordgo.SecondaryButton,
				Disabled: over,
			}
			switch marks[cell] {
			case MarkHidden:
				btn.Label = strconv.Itoa(cell + 1)
			case MarkSafe:
				btn.Emoji = &discordgo.ComponentEmoji{Name: MarkSafe.Emoji()}
				btn.Style = discordgo.SuccessButton
				btn.Disabled = true
			default:
				btn.Emoji = &discordgo.ComponentEmoji{Name: marks[cell].Emoji()}
				btn.Style = discordgo.DangerButton
			}
			btns = append(btns, btn)
		}
		rows = append(rows, utils.CreateActionRow(btns...))
	}

	rows = append(rows, utils.CreateActionRow(
		utils.CreateButton(cashoutCustomID(snap.ID), "Cash Out", discordgo.SuccessButton, over, &discordgo.ComponentEmoji{Name: "💰"}),
	))
	return rows
}

// createMinesEmbed renders the live board or the final outcome
func createMinesEmbed(snap Snapshot) *discordgo.MessageEmbed {
	color := utils.ColorPlaying
	outcome := ""
	switch snap.State {
	case StateCashedOut:
		color = utils.ColorGold
		outcome = fmt.Sprintf("You've decided to leave the game. You keep your winnings of **%s** %s.", utils.FormatChips(snap.Winnings), utils.CoinsEmoji)
	case StateCleared:
		color = utils.ColorSuccess
		outcome = fmt.Sprintf("Congratulations! You've cleared all safe boxes! You win **%s** %s!", utils.FormatChips(snap.Winnings), utils.CoinsEmoji)
	case StateBusted:
		color = utils.ColorError
		outcome = fmt.Sprintf("You hit a bomb! You lose **%s** %s.", utils.FormatChips(snap.OriginalBet), utils.CoinsEmoji)
	case StateTimedOut:
		color = utils.ColorWarning
		outcome = fmt.Sprintf(utils.GameTimeoutMessage, utils.FormatChips(snap.OriginalBet))
	}

	embed := utils.CreateBrandedEmbed("💣 Bomb Squad", "", color)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Difficulty", Value: fmt.Sprintf("%s (x%.2f)", snap.Difficulty.Title(), snap.Multiplier), Inline: true},
		{Name: "Bombs", Value: fmt.Sprintf("%d 💣", snap.Bombs), Inline: true},
		{Name: "Initial Bet", Value: fmt.Sprintf("%s %s", utils.FormatChips(snap.OriginalBet), utils.CoinsEmoji), Inline: true},
	}

	if len(snap.Notes) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Items Used", Value: strings.Join(snap.Notes, "\n")})
	}

	if !snap.State.Terminal() {
		embed.Description = "Pick a box. Every safe box doubles your bet."
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Current Bet", Value: fmt.Sprintf("%s %s", utils.FormatChips(snap.Bet), utils.CoinsEmoji), Inline: true},
			&discordgo.MessageEmbedField{Name: "Cash Out Value", Value: fmt.Sprintf("%s %s", utils.FormatChips(snap.Winnings), utils.CoinsEmoji), Inline: true},
			&discordgo.MessageEmbedField{Name: "Balance", Value: fmt.Sprintf("%s %s", utils.FormatChips(snap.Balance), utils.CoinsEmoji), Inline: true},
		)
		if errors.Is(snap.Rejected, models.ErrAlreadyPicked) {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "⚠️", Value: "You already picked this box! Choose another one."})
		}
		embed.Footer.Text = "Pick boxes to reveal. Cash out anytime."
		return embed
	}

	embed.Description = outcome
	if snap.State != StateTimedOut {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "New Balance",
			Value:  fmt.Sprintf("%s %s", utils.FormatChips(snap.Balance), utils.CoinsEmoji),
			Inline: true,
		})
	}
	return embed
}
