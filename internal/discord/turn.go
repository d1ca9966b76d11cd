package discord

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
)

const (
	turnTimeout = 30 * time.Second
	notActive   = "This battle is no longer active. Start a new one with `/pve`."
)

// handleBattleComponent handles the move buttons, switch menu and flee button
func (b *DiscordBot) handleBattleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.battleComponent(s, i.Interaction)
}

func (b *DiscordBot) battleComponent(api interactionAPI, i *discordgo.Interaction) {
	data := i.MessageComponentData()
	prefix, args := parseCustomID(data.CustomID)
	if len(args) == 0 {
		return
	}

	owner := args[0]
	if interactionUserID(i) != owner {
		b.respondEphemeral(api, i, "This isn't your battle!")
		return
	}

	// Controls from a battle the user already left must not drive the current one
	var battleID uint64
	if len(args) > 1 {
		battleID, _ = strconv.ParseUint(args[1], 10, 64)
	}
	sess, err := b.Battles.Lookup(owner, battleID)
	if err != nil {
		b.respondEphemeral(api, i, notActive)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Over() {
		b.respondEphemeral(api, i, notActive)
		return
	}

	var action battle.Action
	switch prefix {
	case fleeID:
		b.flee(api, i, sess)
		return
	case moveID:
		if len(args) < 3 {
			return
		}
		idx, err := strconv.Atoi(args[2])
		if err != nil {
			return
		}
		if sess.UserPokemon().Fainted {
			b.respondEphemeral(api, i, "Your Pokémon has fainted!")
			return
		}
		action = battle.UseMove(idx)
	case switchID:
		if len(data.Values) == 0 {
			return
		}
		idx, err := strconv.Atoi(data.Values[0])
		if err != nil {
			return
		}
		action = battle.SwitchTo(idx)
	default:
		return
	}

	b.playTurn(api, i, sess, action)
}

// playTurn resolves one turn and shows the result. The session lock must be held.
// The interaction is acknowledged before the scene is rendered.
func (b *DiscordBot) playTurn(api interactionAPI, i *discordgo.Interaction, sess *battle.Session, action battle.Action) {
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	outcome, err := sess.ProcessTurn(action)
	if err != nil {
		b.respondEphemeral(api, i, fmt.Sprintf("⚠️ %v", err))
		return
	}
	b.Metrics.Turn(ctx)

	acknowledged := b.acknowledge(api, i, discordgo.InteractionResponseDeferredMessageUpdate) == nil

	if outcome != battle.Ongoing {
		b.finishBattle(ctx, api, i, sess, acknowledged)
		return
	}

	b.show(api, i, sess, b.sceneView(ctx, sess), acknowledged)
}

// show puts v on the battle message. Without an acknowledged interaction the
// stored battle message is edited directly.
func (b *DiscordBot) show(api interactionAPI, i *discordgo.Interaction, sess *battle.Session, v view, acknowledged bool) {
	if !acknowledged {
		if err := b.editBattleMessage(api, sess, v); err != nil {
			b.Logger.Error().Err(err).Str("user_id", sess.UserID).Str("kind", errorKind(err)).Msg("Error updating battle display")
		}
		return
	}

	msg, err := b.deliver(api, i, v, true)
	if err != nil {
		b.Logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Error updating battle display")
		return
	}
	if msg != nil {
		sess.ChannelID, sess.MessageID = msg.ChannelID, msg.ID
	}
}

// editBattleMessage replaces the stored battle message with v
func (b *DiscordBot) editBattleMessage(api interactionAPI, sess *battle.Session, v view) error {
	if sess.ChannelID == "" || sess.MessageID == "" {
		return fmt.Errorf("no battle message to edit")
	}

	embeds := v.embeds()
	components := v.components()
	attachments := []*discordgo.MessageAttachment{}
	_, err := api.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:          sess.MessageID,
		Channel:     sess.ChannelID,
		Content:     &v.Content,
		Embeds:      &embeds,
		Components:  &components,
		Files:       v.files(),
		Attachments: &attachments,
	})
	return err
}

// finishBattle unregisters a decided battle, pays out a victory and shows the result
func (b *DiscordBot) finishBattle(ctx context.Context, api interactionAPI, i *discordgo.Interaction, sess *battle.Session, acknowledged bool) {
	b.Battles.Remove(sess)
	m := sess.Manager
	b.Metrics.Finished(ctx, m.Boss.Name, m.Outcome().String())

	var reward battle.Reward
	var rewardErr error
	if m.Outcome() == battle.Victory {
		reward, rewardErr = b.Rewarder.Grant(ctx, m)
	}

	b.show(api, i, sess, view{Embeds: []*discordgo.MessageEmbed{resultEmbed(m, reward, rewardErr)}}, acknowledged)

	if b.OpenAI != nil {
		go b.sendRecap(api, i, recapPrompt(m))
	}
}

func (b *DiscordBot) flee(api interactionAPI, i *discordgo.Interaction, sess *battle.Session) {
	if err := sess.Flee(); err != nil {
		b.respondEphemeral(api, i, notActive)
		return
	}
	b.Battles.Remove(sess)
	b.Metrics.Finished(context.Background(), sess.Boss.Name, sess.Outcome().String())

	if _, err := b.deliver(api, i, view{Embeds: []*discordgo.MessageEmbed{fleeEmbed()}}, false); err != nil {
		b.Logger.Error().Err(err).Str("user_id", sess.UserID).Msg("Error showing flee result")
	}
}

// expireBattle marks an idle battle's message as expired
func (b *DiscordBot) expireBattle(api interactionAPI, sess *battle.Session) {
	b.Logger.Info().Str("user_id", sess.UserID).Str("boss", sess.Boss.Name).Msg("Battle expired")
	b.Metrics.Finished(context.Background(), sess.Boss.Name, "expired")

	if sess.ChannelID == "" || sess.MessageID == "" {
		return
	}

	if err := b.editBattleMessage(api, sess, view{Embeds: []*discordgo.MessageEmbed{expiredEmbed()}}); err != nil {
		b.Logger.Warn().Err(err).Str("kind", errorKind(err)).Msg("Error marking battle as expired")
	}
}
