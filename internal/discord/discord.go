package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
)

// buildCommands defines the slash commands; the boss option offers every loaded boss
func buildCommands(bosses []pokedata.Boss) []*discordgo.ApplicationCommand {
	choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(bosses))
	for _, boss := range bosses {
		if len(choices) == maxSelectOptions {
			break
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  boss.Name,
			Value: boss.Key,
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "pve",
			Description: "Battle a boss with your Pokémon",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "team",
					Description: "Pokémon numbers to battle with (e.g. '1 4 7', default: your first three)",
					Required:    false,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "boss",
					Description: "Boss to fight (default: choose from a menu)",
					Required:    false,
					Choices:     choices,
				},
			},
		},
		{
			Name:        "bosses",
			Description: "List the bosses and your boss quest for today",
		},
		{
			Name:        "finish",
			Description: "Clear a battle that is stuck",
		},
	}
}

// NewDiscordBot creates a new Discord bot with the provided configuration
func NewDiscordBot(config *Config, deps Deps) (*DiscordBot, error) {
	if deps.Data == nil {
		return nil, fmt.Errorf("static data is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Renderer == nil {
		return nil, fmt.Errorf("renderer is required")
	}

	session, err := discordgo.New("Bot " + config.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := newBot(config, deps)
	bot.Session = session
	bot.OpenAI = NewOpenAIClient(config.OpenAIToken, config.OpenAIModel, config.MaxTokens, config.Temperature)
	bot.Battles.OnExpire(func(s *battle.Session) { bot.expireBattle(bot.Session, s) })

	return bot, nil
}

// newBot wires everything except the Discord session
func newBot(config *Config, deps Deps) *DiscordBot {
	if config.TeamSize < 1 {
		config.TeamSize = 3
	}

	bot := &DiscordBot{
		Config:            config,
		GuildID:           config.GuildID,
		CommandHandlers:   make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
		ComponentHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
		Data:              deps.Data,
		Store:             deps.Store,
		Renderer:          deps.Renderer,
		Battles:           battle.NewRegistry(config.ViewTimeout),
		Metrics:           deps.Metrics,
		Logger:            deps.Logger.With().Str("component", "discord").Logger(),
	}
	bot.Rewarder = battle.NewRewarder(deps.Store, deps.Logger)

	// Set up command handlers
	bot.CommandHandlers["pve"] = bot.handlePvECommand
	bot.CommandHandlers["bosses"] = bot.handleBossesCommand
	bot.CommandHandlers["finish"] = bot.handleFinishCommand

	bot.ComponentHandlers[bossSelectID] = bot.handleBossSelect
	bot.ComponentHandlers[moveID] = bot.handleBattleComponent
	bot.ComponentHandlers[switchID] = bot.handleBattleComponent
	bot.ComponentHandlers[fleeID] = bot.handleBattleComponent

	return bot
}

// Start starts the Discord bot
func (b *DiscordBot) Start() error {
	// Get bot user ID
	user, err := b.Session.User("@me")
	if err != nil {
		return fmt.Errorf("error getting bot user: %w", err)
	}
	b.BotUserID = user.ID

	// Register interaction handler
	b.Session.AddHandler(b.interactionHandler)

	// Open a websocket connection to Discord
	err = b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}

	// Register commands
	registeredCommands, err := b.registerCommands()
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}
	b.Commands = registeredCommands

	b.stopJanitor = b.Battles.StartJanitor(time.Minute)

	b.Logger.Info().Int("commands", len(b.Commands)).Msg("Bot is now running with slash commands registered")
	return nil
}

// Stop stops the Discord bot and removes its commands
func (b *DiscordBot) Stop() error {
	if b.stopJanitor != nil {
		b.stopJanitor()
	}

	b.Logger.Info().Msg("Removing commands")
	for _, cmd := range b.Commands {
		err := b.Session.ApplicationCommandDelete(b.Session.State.User.ID, b.GuildID, cmd.ID)
		if err != nil {
			b.Logger.Error().Err(err).Str("command", cmd.Name).Msg("Error removing command")
		}
	}

	return b.Session.Close()
}

// registerCommands registers the defined slash commands
func (b *DiscordBot) registerCommands() ([]*discordgo.ApplicationCommand, error) {
	commands := buildCommands(b.Data.Bosses())
	registeredCommands := make([]*discordgo.ApplicationCommand, len(commands))

	for i, cmd := range commands {
		registered, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, b.GuildID, cmd)
		if err != nil {
			return nil, fmt.Errorf("error creating command '%s': %w", cmd.Name, err)
		}
		registeredCommands[i] = registered
	}

	return registeredCommands, nil
}

// interactionHandler routes slash commands by name and components by custom ID prefix
func (b *DiscordBot) interactionHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		commandName := i.ApplicationCommandData().Name
		if handler, ok := b.CommandHandlers[commandName]; ok {
			handler(s, i)
		}
	case discordgo.InteractionMessageComponent:
		prefix, _ := parseCustomID(i.MessageComponentData().CustomID)
		if handler, ok := b.ComponentHandlers[prefix]; ok {
			handler(s, i)
		}
	}
}
