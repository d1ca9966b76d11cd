package discord

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

const sceneFileName = "battle.png"

// interactionAPI is the part of *discordgo.Session the battle flow calls
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// view is everything shown on the battle message. A nil Image clears the scene.
type view struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
	Image      []byte
}

// files builds fresh readers so the view can be sent more than once
func (v view) files() []*discordgo.File {
	if len(v.Image) == 0 {
		return nil
	}
	return []*discordgo.File{{
		Name:        sceneFileName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(v.Image),
	}}
}

func (v view) embeds() []*discordgo.MessageEmbed {
	if v.Embeds == nil {
		return []*discordgo.MessageEmbed{}
	}
	return v.Embeds
}

func (v view) components() []discordgo.MessageComponent {
	if v.Components == nil {
		return []discordgo.MessageComponent{}
	}
	return v.Components
}

// errorKind classifies a failed Discord call for logging
func errorKind(err error) string {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return "transport"
	}
	switch restErr.Response.StatusCode {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "http"
	}
}

// deliver puts v on the battle message. Unless the interaction was already
// acknowledged it first answers with a message update; after that it edits
// the original response, and as a last resort sends a follow-up message.
// It returns the message now carrying the battle when Discord reports one.
func (b *DiscordBot) deliver(api interactionAPI, i *discordgo.Interaction, v view, acknowledged bool) (*discordgo.Message, error) {
	noAttachments := []*discordgo.MessageAttachment{}

	if !acknowledged {
		err := api.InteractionRespond(i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Content:     v.Content,
				Embeds:      v.embeds(),
				Components:  v.components(),
				Files:       v.files(),
				Attachments: &noAttachments,
			},
		})
		if err == nil {
			return i.Message, nil
		}
		b.Logger.Warn().Err(err).Str("kind", errorKind(err)).Msg("Updating battle message failed, editing original response")
	}

	embeds := v.embeds()
	components := v.components()
	msg, err := api.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Content:     &v.Content,
		Embeds:      &embeds,
		Components:  &components,
		Files:       v.files(),
		Attachments: &noAttachments,
	})
	if err == nil {
		return msg, nil
	}
	b.Logger.Warn().Err(err).Str("kind", errorKind(err)).Msg("Editing original response failed, sending follow-up")

	msg, err = api.FollowupMessageCreate(i, true, &discordgo.WebhookParams{
		Content:    v.Content,
		Embeds:     v.Embeds,
		Components: v.components(),
		Files:      v.files(),
	})
	if err != nil {
		return nil, fmt.Errorf("error sending battle follow-up: %w", err)
	}
	return msg, nil
}

// respondEphemeral answers only the clicking user
func (b *DiscordBot) respondEphemeral(api interactionAPI, i *discordgo.Interaction, content string) {
	err := api.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.Logger.Error().Err(err).Str("kind", errorKind(err)).Msg("Error sending ephemeral response")
	}
}

// acknowledge defers the response so slow work can edit it later
func (b *DiscordBot) acknowledge(api interactionAPI, i *discordgo.Interaction, kind discordgo.InteractionResponseType) error {
	if err := api.InteractionRespond(i, &discordgo.InteractionResponse{Type: kind}); err != nil {
		b.Logger.Error().Err(err).Str("kind", errorKind(err)).Msg("Error acknowledging interaction")
		return err
	}
	return nil
}

// sendError replaces the deferred response with an error embed
func (b *DiscordBot) sendError(api interactionAPI, i *discordgo.Interaction, title, description string) {
	embeds := []*discordgo.MessageEmbed{errorEmbed(title, description)}
	components := []discordgo.MessageComponent{}

	if _, err := api.InteractionResponseEdit(i, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		b.Logger.Error().Err(err).Str("kind", errorKind(err)).Msg("Error editing error response")
	}
}
