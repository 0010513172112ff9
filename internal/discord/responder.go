// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/pdiddy/paper-summary/internal/card"
)

// interactionAPI is the subset of *discordgo.Session used to answer an interaction.
type interactionAPI interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error
}

// Responder answers one interaction: a deferred acknowledgement followed by
// one follow-up message per notice or card.
type Responder struct {
	api         interactionAPI
	interaction *discordgo.Interaction
	requester   card.Requester
}

// NewResponder returns a responder for in.
func NewResponder(api interactionAPI, in *discordgo.Interaction) *Responder {
	return &Responder{api: api, interaction: in, requester: Requester(in)}
}

// Defer acknowledges the interaction and shows the typing indicator.
func (r *Responder) Defer(ctx context.Context) error {
	err := r.api.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("deferring interaction: %w", err)
	}
	if r.interaction.ChannelID != "" {
		// Typing is cosmetic; a failure must not abort the command.
		_ = r.api.ChannelTyping(r.interaction.ChannelID, discordgo.WithContext(ctx))
	}
	return nil
}

// Notice sends text as a notice embed.
func (r *Responder) Notice(ctx context.Context, text string) error {
	return r.followup(ctx, card.Notice(text, r.requester))
}

// Card sends c as a paper embed.
func (r *Responder) Card(ctx context.Context, c card.Card) error {
	return r.followup(ctx, c.Embed())
}

func (r *Responder) followup(ctx context.Context, embed *discordgo.MessageEmbed) error {
	_, err := r.api.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("sending follow-up: %w", err)
	}
	return nil
}
