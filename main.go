package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bombsquad/cogs"
	"bombsquad/games/mines"
	"bombsquad/utils"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := utils.InitLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer utils.L().Sync()
	log := utils.L()
	utils.Settings = cfg

	catalog, err := utils.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal("catalog load failed", zap.Error(err))
	}
	utils.Items = catalog

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)
	utils.Accounts = store
	defer store.Close()

	health := utils.StartHealthServer(cfg.Port, store)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = health.Shutdown(shutdownCtx)
	}()

	utils.GameStateMgr.StartCleanup(90 * time.Second)
	defer utils.GameStateMgr.Close()
	utils.DiscordAPI.StartPerformanceMonitoring(ctx, 5*time.Minute)

	if cfg.BotToken == "" {
		log.Warn("BOT_TOKEN not set - Discord bot will not connect")
		utils.SetBotStatus("no_token")
		<-ctx.Done()
		return
	}

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.Error("failed to create Discord session", zap.Error(err))
		utils.SetBotStatus("error")
		<-ctx.Done()
		return
	}

	session.Identify.Intents = discordgo.IntentsGuilds
	session.AddHandler(onReady)
	session.AddHandler(onInteractionCreate)

	if err := session.Open(); err != nil {
		log.Error("failed to open Discord connection", zap.Error(err))
		utils.SetBotStatus("connection_failed")
		<-ctx.Done()
		return
	}
	defer session.Close()

	log.Info("bot is now running, press CTRL+C to exit")
	utils.SetBotStatus("running")

	<-ctx.Done()
	log.Info("gracefully shutting down")
	utils.SetBotStatus("shutting_down")
}

// openStore picks postgres, then sqlite, then memory, optionally behind redis
func openStore(ctx context.Context, cfg *utils.Config) utils.AccountStore {
	log := utils.L()

	var store utils.AccountStore
	switch {
	case cfg.DatabaseURL != "":
		pg, err := utils.SetupDatabase(ctx, cfg.DatabaseURL, cfg.StartingBalance)
		if err != nil {
			log.Error("database setup failed, falling back to memory", zap.Error(err))
			break
		}
		log.Info("database connected successfully", zap.String("store", "postgres"))
		store = pg
	case cfg.SQLitePath != "":
		lite, err := utils.OpenSQLite(ctx, cfg.SQLitePath, cfg.StartingBalance)
		if err != nil {
			log.Error("sqlite setup failed, falling back to memory", zap.Error(err))
			break
		}
		log.Info("database connected successfully", zap.String("store", "sqlite"), zap.String("path", cfg.SQLitePath))
		store = lite
	}
	if store == nil {
		log.Warn("no database configured - accounts will not survive a restart")
		store = utils.NewMemoryStore(cfg.StartingBalance)
	}

	if cfg.RedisURL != "" {
		rdb, err := utils.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis unavailable, running without cache", zap.Error(err))
			return store
		}
		log.Info("account cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		return utils.NewCachedStore(store, rdb, cfg.CacheTTL)
	}
	return store
}

func onReady(s *discordgo.Session, event *discordgo.Ready) {
	log := utils.L()
	log.Info("discord bot logged in", zap.String("user", event.User.Username), zap.String("id", event.User.ID))
	utils.SetBotStatus("online")

	if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "/play - dodge the bombs",
				Type: discordgo.ActivityTypeGame,
			},
		},
		Status: "online",
	}); err != nil {
		log.Warn("failed to update status", zap.Error(err))
	}

	if err := registerSlashCommands(s); err != nil {
		log.Error("failed to register slash commands", zap.Error(err))
	}
}

func registerSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Check bot latency and status",
		},
		{
			Name:        "info",
			Description: "Get information about the bot",
		},
		mines.RegisterPlayCommand(),
	}
	commands = append(commands, cogs.RegisterEconomyCommands()...)

	if _, err := s.ApplicationCommandBulkOverwrite(s.State.User.ID, utils.Settings.GuildID, commands); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	utils.L().Info("registered slash commands", zap.Int("count", len(commands)))
	return nil
}

func onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		switch i.ApplicationCommandData().Name {
		case "ping":
			handlePingCommand(s, i)
		case "info":
			handleInfoCommand(s, i)
		case "play":
			mines.HandlePlayCommand(s, i)
		case "balance":
			cogs.HandleBalanceCommand(s, i)
		case "inventory":
			cogs.HandleInventoryCommand(s, i)
		case "shop":
			cogs.HandleShopCommand(s, i)
		case "buy":
			cogs.HandleBuyCommand(s, i)
		case "use":
			cogs.HandleUseCommand(s, i)
		case "leaderboard":
			cogs.HandleLeaderboardCommand(s, i)
		}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		switch {
		case strings.HasPrefix(customID, "mines_"):
			mines.HandleMinesButton(s, i)
		case strings.HasPrefix(customID, "use_select_"):
			cogs.HandleUseSelect(s, i)
		}
	}
}

func handlePingCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	startTime := time.Now()
	latency := s.HeartbeatLatency()

	embed := utils.CreateBrandedEmbed("🏓 Pong!", "", utils.BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Latency", Value: fmt.Sprintf("%dms", latency.Milliseconds()), Inline: true},
		{Name: "Status", Value: "✅ Online", Inline: true},
		{Name: "Active Games", Value: fmt.Sprintf("%d", utils.GameStateMgr.ActiveGames()), Inline: true},
		{Name: "Response Time", Value: fmt.Sprintf("%dms", time.Since(startTime).Milliseconds()), Inline: true},
	}
	if m := utils.DiscordAPI.Metrics(); m.TotalRequests > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Board Updates",
			Value:  fmt.Sprintf("%s sent, %.1f%% ok, avg %dms", utils.FormatNumber(m.TotalRequests), m.SuccessRate(), m.AverageLatency.Milliseconds()),
			Inline: false,
		})
	}
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}

func handleInfoCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := utils.CreateBrandedEmbed("💣 "+utils.BotName, "Bet coins on a 3x3 board, dodge the bombs, and cash out before it blows.", utils.BotColor)
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Version", Value: version, Inline: true},
		{Name: "Language", Value: "Go", Inline: true},
		{Name: "Framework", Value: "DiscordGo", Inline: true},
		{
			Name: "How to Play",
			Value: "`/play bet difficulty` starts a game. Every safe box doubles your bet.\n" +
				"Cash out any time: you win (bet - initial bet) x multiplier.\n" +
				"Hit a bomb and you lose your initial bet.",
		},
		{Name: "Commands", Value: "`/play` `/balance` `/inventory` `/shop` `/buy` `/use` `/leaderboard`"},
	}
	_ = utils.SendInteractionResponse(s, i, embed, nil, false)
}
