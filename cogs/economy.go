package cogs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bombsquad/models"
	"bombsquad/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const useSelectPrefix = "use_select_"

// RegisterEconomyCommands returns the account, shop and leaderboard commands
func RegisterEconomyCommands() []*discordgo.ApplicationCommand {
	itemChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(utils.Items.All()))
	for _, item := range utils.Items.All() {
		itemChoices = append(itemChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%s %s (%s coins)", item.Emoji, utils.ItemTitle(item.Name), utils.FormatChips(item.Price)),
			Value: item.Name,
		})
	}
	minLimit := 1.0

	return []*discordgo.ApplicationCommand{
		{
			Name:        "balance",
			Description: "Check your coins and score",
		},
		{
			Name:        "inventory",
			Description: "See the items you own",
		},
		{
			Name:        "shop",
			Description: "Browse items that help you dodge bombs",
		},
		{
			Name:        "buy",
			Description: "Buy an item from the shop",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to buy",
					Required:    true,
					Choices:     itemChoices,
				},
			},
		},
		{
			Name:        "use",
			Description: "Activate an item for your next game",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "item",
					Description: "Item to use (leave empty to pick from your inventory)",
					Required:    false,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Top players by score",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "limit",
					Description: fmt.Sprintf("How many players to show (default %d)", utils.DefaultLeaderboard),
					Required:    false,
					MinValue:    &minLimit,
					MaxValue:    utils.MaxLeaderboard,
				},
			},
		},
	}
}

func invoker(i *discordgo.InteractionCreate) (int64, string, bool) {
	user := utils.InteractionUser(i)
	if user == nil {
		return 0, "", false
	}
	uid, err := utils.ParseUserID(user.ID)
	if err != nil {
		return 0, "", false
	}
	return uid, user.Username, true
}

func respondStoreError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	utils.L().Error("account store failed", zap.String("command", i.ApplicationCommandData().Name), zap.Error(err))
	_ = utils.RespondEphemeral(s, i, utils.StoreErrorMessage)
}

// HandleBalanceCommand shows the player's coins, score and tier
func HandleBalanceCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uid, name, ok := invoker(i)
	if !ok {
		return
	}
	acc, err := utils.Accounts.Get(context.Background(), uid)
	if err != nil {
		respondStoreError(s, i, err)
		return
	}
	_ = utils.SendInteractionResponse(s, i, utils.BalanceEmbed(name, acc.Balance, acc.Score), nil, false)
}

// HandleInventoryCommand lists held items with quantities
func HandleInventoryCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uid, name, ok := invoker(i)
	if !ok {
		return
	}
	acc, err := utils.Accounts.Get(context.Background(), uid)
	if err != nil {
		respondStoreError(s, i, err)
		return
	}
	_ = utils.SendInteractionResponse(s, i, inventoryEmbed(name, acc.ItemCounts(), utils.Items), nil, false)
}

// HandleShopCommand lists the catalog
func HandleShopCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	_ = utils.SendInteractionResponse(s, i, shopEmbed(utils.Items), nil, false)
}

// HandleBuyCommand buys one unit of an item
func HandleBuyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uid, _, ok := invoker(i)
	if !ok {
		return
	}
	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "item" {
			name = opt.StringValue()
		}
	}

	acc, item, err := utils.Buy(context.Background(), utils.Accounts, utils.Items, uid, name)
	switch {
	case err == nil:
		desc := fmt.Sprintf("You've purchased %s %s for %s %s!\n**Balance:** %s %s",
			utils.ItemTitle(item.Name), item.Emoji,
			utils.FormatChips(item.Price), utils.CoinsEmoji,
			utils.FormatChips(acc.Balance), utils.CoinsEmoji)
		_ = utils.SendInteractionResponse(s, i, utils.CreateBrandedEmbed("🛒 Purchase Complete", desc, utils.ColorSuccess), nil, false)
	case errors.Is(err, models.ErrUnknownItem):
		_ = utils.SendInteractionResponse(s, i, utils.ErrorEmbed("Unknown Item", "That item doesn't exist! Check `/shop` for the list."), nil, true)
	case errors.Is(err, models.ErrInsufficientFunds):
		_ = utils.SendInteractionResponse(s, i, utils.InsufficientFundsEmbed(item.Price, acc.Balance, utils.ItemTitle(item.Name)), nil, true)
	default:
		respondStoreError(s, i, err)
	}
}

// HandleUseCommand activates an item by name, or offers a picker of held items
func HandleUseCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	uid, _, ok := invoker(i)
	if !ok {
		return
	}
	var name string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "item" {
			name = strings.TrimSpace(opt.StringValue())
		}
	}

	if name != "" {
		_, err := utils.UseItem(context.Background(), utils.Accounts, uid, name)
		if err != nil {
			respondUseError(s, i, err)
			return
		}
		_ = utils.SendInteractionResponse(s, i, useResultEmbed(name), nil, false)
		return
	}

	counts, err := utils.HeldItems(context.Background(), utils.Accounts, uid)
	if err != nil {
		respondUseError(s, i, err)
		return
	}

	customID := fmt.Sprintf("%s%d_%s", useSelectPrefix, uid, i.ID)
	selected, cancel := utils.Selections.Expect(customID)
	menu := []discordgo.MessageComponent{useMenu(customID, counts, utils.Items)}
	embed := utils.CreateBrandedEmbed("Select an Item to Use", "Choose an item from your inventory.", utils.ColorPlaying)
	if err := utils.SendInteractionResponse(s, i, embed, menu, false); err != nil {
		cancel()
		return
	}

	go func() {
		defer cancel()
		ctx := context.Background()
		choice, err := utils.Wait(ctx, selected, utils.Settings.SelectTimeout)
		if err != nil {
			timeout := utils.CreateBrandedEmbed("⏰ Timeout", utils.SelectTimeoutNotice, utils.ColorWarning)
			_ = utils.EditOriginalInteraction(s, i, timeout, utils.DisableAllComponents(menu))
			return
		}

		result := useResultEmbed(choice)
		if _, err := utils.UseItem(ctx, utils.Accounts, uid, choice); err != nil {
			result = useErrorEmbed(err)
		}
		_ = utils.EditOriginalInteraction(s, i, result, []discordgo.MessageComponent{})
	}()
}

// HandleUseSelect delivers a picker choice to the waiting /use command
func HandleUseSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.MessageComponentData()
	owner, ok := selectOwner(data.CustomID)
	if !ok || len(data.Values) == 0 {
		return
	}
	uid, _, _ := invoker(i)
	if uid != owner {
		_ = utils.RespondEphemeral(s, i, "This menu isn't yours.")
		return
	}
	if !utils.Selections.Deliver(data.CustomID, data.Values[0]) {
		_ = utils.RespondEphemeral(s, i, "This menu has expired. Run `/use` again.")
		return
	}
	_ = utils.AcknowledgeComponentInteraction(s, i)
}

// selectOwner extracts the user id from use_select_<user>_<interaction>
func selectOwner(customID string) (int64, bool) {
	rest, ok := strings.CutPrefix(customID, useSelectPrefix)
	if !ok {
		return 0, false
	}
	idPart, _, _ := strings.Cut(rest, "_")
	uid, err := strconv.ParseInt(idPart, 10, 64)
	return uid, err == nil
}

func respondUseError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	if !errors.Is(err, models.ErrEmptyInventory) && !errors.Is(err, models.ErrUnknownItem) {
		respondStoreError(s, i, err)
		return
	}
	_ = utils.SendInteractionResponse(s, i, useErrorEmbed(err), nil, true)
}

func useErrorEmbed(err error) *discordgo.MessageEmbed {
	switch {
	case errors.Is(err, models.ErrEmptyInventory):
		return utils.ErrorEmbed("Empty Inventory", "Your inventory is empty! Visit the `/shop` to buy items.")
	case errors.Is(err, models.ErrUnknownItem):
		return utils.ErrorEmbed("Item Not Found", "You don't have that item. Check your `/inventory`.")
	}
	utils.L().Error("use item failed", zap.Error(err))
	return utils.ErrorEmbed("Bomb Squad", utils.StoreErrorMessage)
}

func useResultEmbed(name string) *discordgo.MessageEmbed {
	name = utils.NormalizeItemName(name)
	return utils.CreateBrandedEmbed("✨ Item Activated",
		fmt.Sprintf("You have activated %s %s for your next game.", utils.ItemTitle(name), utils.Items.Emoji(name)),
		utils.ColorSuccess)
}

func useMenu(customID string, counts []models.ItemCount, catalog *utils.Catalog) discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(counts))
	for _, c := range counts {
		options = append(options, discordgo.SelectMenuOption{
			Label:       utils.ItemTitle(c.Name),
			Value:       c.Name,
			Description: fmt.Sprintf("Quantity: %d", c.Quantity),
			Emoji:       &discordgo.ComponentEmoji{Name: catalog.Emoji(c.Name)},
		})
	}
	return utils.CreateActionRow(utils.CreateSelectMenu(customID, "Choose an item", options))
}

func inventoryEmbed(username string, counts []models.ItemCount, catalog *utils.Catalog) *discordgo.MessageEmbed {
	embed := utils.CreateBrandedEmbed(fmt.Sprintf("🎒 %s's Inventory", username), "", utils.ColorPlaying)
	if len(counts) == 0 {
		embed.Description = "Your inventory is empty. Visit the `/shop` to buy items."
		return embed
	}
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%s %s: %d", catalog.Emoji(c.Name), utils.ItemTitle(c.Name), c.Quantity))
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

func shopEmbed(catalog *utils.Catalog) *discordgo.MessageEmbed {
	embed := utils.CreateBrandedEmbed("🛒 Shop", "Spend your coins on upgrades! Items are used up at the start of your next `/play`.", utils.ColorSuccess)
	for _, item := range catalog.All() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s %s (%s coins)", item.Emoji, utils.ItemTitle(item.Name), utils.FormatChips(item.Price)),
			Value: effectBlurb(item.Effect),
		})
	}
	return embed
}

func effectBlurb(e models.Effect) string {
	switch e {
	case models.EffectRevealBomb:
		return "Reveals the position of one bomb."
	case models.EffectMultiplierBoost:
		return "Increases your payout multiplier by 10%."
	}
	return "A collectible. No effect on the board."
}
