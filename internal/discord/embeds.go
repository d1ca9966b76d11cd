package discord

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
	"github.com/hunterjsb/pokebot/internal/store"
)

const (
	colorVictory = 0x00FF00
	colorDefeat  = 0xFF0000
	colorNeutral = 0x808080
	colorBosses  = 0xFFCB05
)

func errorEmbed(title, description string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0xff0000,
	}
}

// resultEmbed summarises a finished battle. rewardErr is only consulted for victories.
func resultEmbed(m *battle.Manager, reward battle.Reward, rewardErr error) *discordgo.MessageEmbed {
	switch m.Outcome() {
	case battle.Victory:
		return victoryEmbed(m, reward, rewardErr)
	case battle.Fled:
		return fleeEmbed()
	default:
		return defeatEmbed(m)
	}
}

func victoryEmbed(m *battle.Manager, reward battle.Reward, rewardErr error) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🎉 Victory!",
		Description: fmt.Sprintf("You defeated %s!\n\n💰 Earned %d credits!", m.Boss.Name, m.Boss.RewardCredits),
		Color:       colorVictory,
		Footer:      turnsFooter(m),
	}

	if rewardErr != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "⚠️ Reward Error",
			Value:  "There was an error processing your reward. Please contact an admin.",
			Inline: false,
		})
		return embed
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "💰 Rewards",
		Value:  fmt.Sprintf("**%d coins** added to your balance!", reward.Coins),
		Inline: false,
	})
	if reward.QuestCompleted {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "✅ Quest Complete!",
			Value:  fmt.Sprintf("You completed the 'Defeat %s' quest!", reward.QuestTarget),
			Inline: false,
		})
	}
	return embed
}

func defeatEmbed(m *battle.Manager) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "💀 Defeat...",
		Description: fmt.Sprintf("%s defeated your team!", m.Boss.Name),
		Color:       colorDefeat,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "💡 Tip",
				Value:  "Train your Pokémon, learn better moves, and try again!",
				Inline: false,
			},
		},
		Footer: turnsFooter(m),
	}
}

func fleeEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Battle Ended",
		Description: "You fled from the battle!",
		Color:       colorNeutral,
	}
}

func expiredEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⌛ Battle Expired",
		Description: "This battle ended after a period of inactivity.",
		Color:       colorNeutral,
	}
}

func turnsFooter(m *battle.Manager) *discordgo.MessageEmbedFooter {
	if m.TurnCount == 1 {
		return &discordgo.MessageEmbedFooter{Text: "Battle lasted 1 turn"}
	}
	return &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Battle lasted %d turns", m.TurnCount)}
}

// bossEmoji picks a select menu emoji from the boss name
func bossEmoji(name string) string {
	label := strings.ToLower(name)
	switch {
	case strings.Contains(label, "rock"):
		return "🪨"
	case strings.Contains(label, "water"), strings.Contains(label, "misty"):
		return "💧"
	case strings.Contains(label, "electric"), strings.Contains(label, "surge"):
		return "⚡"
	case strings.Contains(label, "fire"), strings.Contains(label, "blaine"):
		return "🔥"
	}
	return ""
}

// bossListEmbed lists every boss and, when known, the user's quest for today
func bossListEmbed(bosses []pokedata.Boss, quest *store.BossQuest) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Boss Battles",
		Description: "Challenge a boss with `/pve`. Your first three Pokémon fight unless you pick a team.",
		Color:       colorBosses,
	}

	for _, boss := range bosses {
		members := make([]string, 0, len(boss.Team))
		for _, member := range boss.Team {
			members = append(members, fmt.Sprintf("%s (Lv.%d)", member.Name, member.Level))
		}

		name := boss.Name
		if emoji := bossEmoji(boss.Name); emoji != "" {
			name = emoji + " " + name
		}
		value := fmt.Sprintf("%s\nReward: **%d** credits", strings.Join(members, ", "), boss.RewardCredits)
		if boss.Title != "" {
			value = fmt.Sprintf("*%s*\n%s", boss.Title, value)
		}

		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   name,
			Value:  value,
			Inline: false,
		})
	}

	if quest != nil {
		status := "⏳ In progress"
		if quest.Completed {
			status = "✅ Completed"
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "📋 Today's Quest",
			Value:  fmt.Sprintf("Defeat **%s** • %s • Reward: %d coins", quest.Target, status, quest.Reward),
			Inline: false,
		})
	}
	return embed
}
