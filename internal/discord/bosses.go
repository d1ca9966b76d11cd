package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
)

// questCandidates are the quest names of the gym leaders, the only bosses daily quests target
func questCandidates(bosses []pokedata.Boss) []string {
	var out []string
	for _, boss := range bosses {
		if strings.Contains(strings.ToLower(boss.Key), "gym_leader") {
			out = append(out, battle.QuestTargetName(boss.Name))
		}
	}
	return out
}

// handleBossesCommand handles the /bosses command
func (b *DiscordBot) handleBossesCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.bosses(s, i.Interaction)
}

func (b *DiscordBot) bosses(api interactionAPI, i *discordgo.Interaction) {
	if err := b.acknowledge(api, i, discordgo.InteractionResponseDeferredChannelMessageWithSource); err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bosses := b.Data.Bosses()
	userID := interactionUserID(i)

	var quest *store.BossQuest
	if candidates := questCandidates(bosses); len(candidates) > 0 {
		q, err := b.Store.DailyBossQuest(ctx, userID, candidates)
		if err != nil {
			b.Logger.Warn().Err(err).Msg("Error loading boss quest")
		} else {
			quest = &q
		}
	}

	embed := bossListEmbed(bosses, quest)
	embed.Footer = b.trainerFooter(ctx, userID, quest)

	embeds := []*discordgo.MessageEmbed{embed}
	if _, err := api.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds: &embeds,
	}); err != nil {
		b.Logger.Error().Err(err).Str("kind", errorKind(err)).Msg("Error editing interaction response")
	}
}

// trainerFooter shows the user's balance and today's wins against the quest
// target. It returns nil when the balance can't be loaded.
func (b *DiscordBot) trainerFooter(ctx context.Context, userID string, quest *store.BossQuest) *discordgo.MessageEmbedFooter {
	coins, err := b.Store.Coins(ctx, userID)
	if err != nil {
		b.Logger.Warn().Err(err).Str("user_id", userID).Msg("Error loading balance")
		return nil
	}

	text := fmt.Sprintf("💰 Balance: %d coins", coins)
	if quest != nil {
		wins, err := b.Store.BossWins(ctx, userID, quest.Target)
		if err != nil {
			b.Logger.Warn().Err(err).Str("user_id", userID).Msg("Error loading boss wins")
		} else {
			text += fmt.Sprintf(" • Wins against %s today: %d", quest.Target, wins)
		}
	}
	return &discordgo.MessageEmbedFooter{Text: text}
}

// handleFinishCommand handles the /finish command
func (b *DiscordBot) handleFinishCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.finish(s, i.Interaction)
}

func (b *DiscordBot) finish(api interactionAPI, i *discordgo.Interaction) {
	userID := interactionUserID(i)
	if !b.Battles.Finish(userID) {
		b.respondEphemeral(api, i, "You don't have an active battle.")
		return
	}

	b.Logger.Info().Str("user_id", userID).Msg("Stuck battle cleared")
	b.respondEphemeral(api, i, "✅ Your battle has been cleared. You can start a new one with `/pve`.")
}
