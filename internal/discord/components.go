package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/hunterjsb/pokebot/internal/pokedata"
)

// Custom ID prefixes. IDs look like "<prefix>:<owner user id>[:<arg>...]".
// Battle controls carry the battle ID after the owner.
const (
	bossSelectID = "boss_select"
	moveID       = "battle_move"
	switchID     = "battle_switch"
	fleeID       = "battle_flee"
)

// Discord allows five components per action row and 25 select options
const (
	movesPerRow      = 2
	maxSelectOptions = 25
)

func customID(prefix string, args ...string) string {
	return strings.Join(append([]string{prefix}, args...), ":")
}

// parseCustomID splits a custom ID into its prefix and arguments
func parseCustomID(id string) (string, []string) {
	parts := strings.Split(id, ":")
	return parts[0], parts[1:]
}

// interactionUserID returns who triggered an interaction, in a guild or a DM
func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// parseTeamNumbers reads "1 2 3", "1,2,3" or "1, 2, 3". An empty string means the default team.
func parseTeamNumbers(raw string) ([]int, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})

	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(strings.TrimPrefix(f, "#"))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%q is not a pokemon number", f)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func formatTeamNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func battleToken(sess *battle.Session) string {
	return strconv.FormatUint(sess.ID, 10)
}

// battleComponents builds the move buttons, switch menu and flee button for
// the user's active creature
func battleComponents(sess *battle.Session) []discordgo.MessageComponent {
	owner, token := sess.UserID, battleToken(sess)
	active := sess.UserPokemon()

	var rows []discordgo.MessageComponent
	var row []discordgo.MessageComponent
	for idx, move := range active.Moves {
		row = append(row, discordgo.Button{
			Label:    fmt.Sprintf("%s (%d PWR)", move.Name, move.Power),
			Style:    discordgo.PrimaryButton,
			CustomID: customID(moveID, owner, token, strconv.Itoa(idx)),
		})
		if len(row) == movesPerRow {
			rows = append(rows, discordgo.ActionsRow{Components: row})
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, discordgo.ActionsRow{Components: row})
	}

	if slots := sess.SwitchOptions(); len(slots) > 0 {
		options := make([]discordgo.SelectMenuOption, 0, len(slots))
		for _, idx := range slots {
			p := sess.UserTeam[idx]
			options = append(options, discordgo.SelectMenuOption{
				Label:       p.DisplayName(),
				Value:       strconv.Itoa(idx),
				Description: fmt.Sprintf("HP: %d/%d", p.CurrentHP, p.MaxHP),
				Emoji:       &discordgo.ComponentEmoji{Name: "🔄"},
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    customID(switchID, owner, token),
				Placeholder: "Switch Pokémon...",
				Options:     options,
			},
		}})
	}

	rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			Label:    "Flee",
			Style:    discordgo.DangerButton,
			Emoji:    &discordgo.ComponentEmoji{Name: "🏃"},
			CustomID: customID(fleeID, owner, token),
		},
	}})
	return rows
}

// bossSelectComponents builds the boss picker. The chosen team travels in the custom ID.
func bossSelectComponents(bosses []pokedata.Boss, owner string, team []int) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(bosses))
	for _, boss := range bosses {
		if len(options) == maxSelectOptions {
			break
		}
		opt := discordgo.SelectMenuOption{
			Label:       boss.Name,
			Value:       boss.Key,
			Description: strings.TrimSpace(fmt.Sprintf("%s (Reward: %d credits)", boss.Title, boss.RewardCredits)),
		}
		if emoji := bossEmoji(boss.Name); emoji != "" {
			opt.Emoji = &discordgo.ComponentEmoji{Name: emoji}
		}
		options = append(options, opt)
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    customID(bossSelectID, owner, formatTeamNumbers(team)),
				Placeholder: "Choose a boss to battle...",
				Options:     options,
			},
		}},
	}
}
