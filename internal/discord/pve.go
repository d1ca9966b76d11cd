package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
)

const startTimeout = 30 * time.Second

// PvEParams holds parsed /pve options
type PvEParams struct {
	Team    []int
	BossKey string
}

// ParsePvEParams extracts the /pve options by name
func ParsePvEParams(options []*discordgo.ApplicationCommandInteractionDataOption) (PvEParams, error) {
	params := PvEParams{}

	for _, opt := range options {
		switch opt.Name {
		case "team":
			team, err := parseTeamNumbers(opt.StringValue())
			if err != nil {
				return PvEParams{}, err
			}
			params.Team = team
		case "boss":
			params.BossKey = opt.StringValue()
		}
	}

	return params, nil
}

// handlePvECommand handles the /pve command
func (b *DiscordBot) handlePvECommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.pve(s, i.Interaction, i.ApplicationCommandData().Options)
}

func (b *DiscordBot) pve(api interactionAPI, i *discordgo.Interaction, options []*discordgo.ApplicationCommandInteractionDataOption) {
	userID := interactionUserID(i)

	params, err := ParsePvEParams(options)
	if err != nil {
		b.respondEphemeral(api, i, fmt.Sprintf("❌ %v. Use numbers like `1 4 7`.", err))
		return
	}

	if b.Battles.Active(userID) {
		b.respondEphemeral(api, i, "❌ You're already in a battle! Use `/finish` if it is stuck.")
		return
	}

	if params.BossKey == "" {
		err := api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    "Choose a boss to battle!",
				Components: bossSelectComponents(b.Data.Bosses(), userID, params.Team),
			},
		})
		if err != nil {
			b.Logger.Error().Err(err).Str("kind", errorKind(err)).Msg("Error sending boss selection")
		}
		return
	}

	boss, ok := b.Data.Boss(params.BossKey)
	if !ok {
		b.respondEphemeral(api, i, fmt.Sprintf("❌ Unknown boss `%s`. See `/bosses`.", params.BossKey))
		return
	}

	if err := b.acknowledge(api, i, discordgo.InteractionResponseDeferredChannelMessageWithSource); err != nil {
		return
	}
	b.startBattle(api, i, userID, boss, params.Team)
}

// handleBossSelect starts the battle picked from the boss menu
func (b *DiscordBot) handleBossSelect(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.bossSelect(s, i.Interaction)
}

func (b *DiscordBot) bossSelect(api interactionAPI, i *discordgo.Interaction) {
	data := i.MessageComponentData()
	_, args := parseCustomID(data.CustomID)
	if len(args) == 0 || len(data.Values) == 0 {
		return
	}

	owner := args[0]
	if interactionUserID(i) != owner {
		b.respondEphemeral(api, i, "This isn't your selection!")
		return
	}

	var team []int
	if len(args) > 1 {
		var err error
		if team, err = parseTeamNumbers(args[1]); err != nil {
			b.respondEphemeral(api, i, fmt.Sprintf("❌ %v", err))
			return
		}
	}

	boss, ok := b.Data.Boss(data.Values[0])
	if !ok {
		b.respondEphemeral(api, i, "❌ That boss is no longer available.")
		return
	}

	if err := b.acknowledge(api, i, discordgo.InteractionResponseDeferredMessageUpdate); err != nil {
		return
	}
	b.startBattle(api, i, owner, boss, team)
}

// startBattle loads the team, registers the battle and shows the first scene.
// The interaction must already be acknowledged.
func (b *DiscordBot) startBattle(api interactionAPI, i *discordgo.Interaction, userID string, boss pokedata.Boss, numbers []int) {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()

	log := b.Logger.With().Str("user_id", userID).Str("boss", boss.Name).Logger()

	team, err := b.Store.Team(ctx, userID, numbers, b.Config.TeamSize)
	if err != nil {
		log.Warn().Err(err).Msg("Could not load battle team")
		switch {
		case errors.Is(err, battle.ErrNotEnoughPokemon):
			b.sendError(api, i, "Not Enough Pokémon", fmt.Sprintf("❌ You need at least %d Pokémon to battle!", b.Config.TeamSize))
		case errors.Is(err, store.ErrPokemonNotFound):
			b.sendError(api, i, "Pokémon Not Found", fmt.Sprintf("❌ You don't own that Pokémon (%v).", err))
		default:
			b.sendError(api, i, "Team Error", "Could not load your team. Please try again.")
		}
		return
	}

	m, err := battle.NewManager(userID, boss, team, b.Data, battle.Options{
		Logger:       b.Logger,
		ApplyNatures: b.Config.ApplyNatures,
		MinTeamSize:  b.Config.TeamSize,
	})
	if err != nil {
		log.Error().Err(err).Msg("Error creating battle")
		b.sendError(api, i, "Battle Error", "Could not start the battle.")
		return
	}

	sess, err := b.Battles.Start(m)
	if err != nil {
		b.sendError(api, i, "Already Battling", "❌ You're already in a battle! Use `/finish` if it is stuck.")
		return
	}
	b.Metrics.Started(ctx, boss.Name)

	sess.Lock()
	defer sess.Unlock()

	msg, err := b.deliver(api, i, b.sceneView(ctx, sess), true)
	if err != nil {
		log.Error().Err(err).Msg("Error showing battle, abandoning it")
		b.Battles.Remove(sess)
		b.Metrics.Finished(ctx, boss.Name, "abandoned")
		return
	}
	if msg != nil {
		sess.ChannelID, sess.MessageID = msg.ChannelID, msg.ID
	}
}

// sceneView renders the current scene with the battle controls. A failed
// render falls back to the latest log line.
func (b *DiscordBot) sceneView(ctx context.Context, sess *battle.Session) view {
	v := view{Components: battleComponents(sess)}

	start := time.Now()
	png, err := b.Renderer.Render(ctx, sess.Snapshot())
	b.Metrics.Rendered(ctx, time.Since(start), err)
	if err != nil {
		b.Logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Error rendering battle scene")
		v.Content = fmt.Sprintf("⚔️ %s", sess.LatestLog())
		return v
	}

	v.Image = png
	return v
}
