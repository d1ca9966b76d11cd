package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/pokebot/internal/battle"
	"github.com/sashabaranov/go-openai"
)

// maxRecapLogLines bounds how much of a long battle is sent for a recap
const maxRecapLogLines = 30

// NewOpenAIClient returns nil when no API key is configured
func NewOpenAIClient(apiKey, model string, maxTokens int, temperature float64) *OpenAIClient {
	if apiKey == "" {
		return nil
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	client := openai.NewClient(apiKey)
	return &OpenAIClient{
		client:      client,
		model:       model,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

func (o *OpenAIClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: o.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an excitable Pokémon battle commentator. Keep it to three sentences.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   o.maxTokens,
			Temperature: o.temperature,
		},
	)

	if err != nil {
		return "", fmt.Errorf("ChatCompletion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// recapPrompt describes a finished battle for the commentator
func recapPrompt(m *battle.Manager) string {
	var sb strings.Builder

	result := "lost to"
	switch m.Outcome() {
	case battle.Victory:
		result = "defeated"
	case battle.Fled:
		result = "ran away from"
	}
	fmt.Fprintf(&sb, "A trainer %s %s after %d turns.\n", result, m.Boss.Name, m.TurnCount)

	team := make([]string, 0, len(m.UserTeam))
	for _, p := range m.UserTeam {
		team = append(team, fmt.Sprintf("%s (Lv.%d)", p.DisplayName(), p.Level))
	}
	fmt.Fprintf(&sb, "Trainer's team: %s\n", strings.Join(team, ", "))

	log := m.Log
	if len(log) > maxRecapLogLines {
		log = log[len(log)-maxRecapLogLines:]
	}
	sb.WriteString("Battle log:\n")
	for _, entry := range log {
		sb.WriteString(entry)
		sb.WriteString("\n")
	}
	return sb.String()
}

// sendRecap posts an AI summary of the battle as a follow-up message
func (b *DiscordBot) sendRecap(api interactionAPI, i *discordgo.Interaction, prompt string) {
	if b.OpenAI == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	recap, err := b.OpenAI.GenerateResponse(ctx, prompt)
	if err != nil {
		b.Logger.Warn().Err(err).Msg("Error generating battle recap")
		return
	}
	if len(recap) > 4000 {
		recap = recap[:4000] + "..."
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🎙️ Battle Recap",
		Description: recap,
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Powered by OpenAI",
		},
	}
	if _, err := api.FollowupMessageCreate(i, false, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		b.Logger.Warn().Err(err).Msg("Error sending battle recap")
	}
}
