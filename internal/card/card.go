// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package card formats papers and their summaries as Discord embeds.
package card

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/pdiddy/paper-summary/pkg/types"
)

const (
	// PaperColor is the embed accent for paper cards.
	PaperColor = 0x00FFFF

	// NoticeColor is the embed accent for notices.
	NoticeColor = 0x80A89C

	// PublishedFmt renders the Published field.
	PublishedFmt = "2006-01-02 15:04:05 MST"

	// Discord embed limits.
	maxTitleLen = 256
	maxFieldLen = 1024

	emptyValue = "-"
)

// Requester identifies the user who ran the command.
type Requester struct {
	Name      string `json:"name" yaml:"name"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
}

// Card is the display form of one search result.
type Card struct {
	Title      string    `json:"title" yaml:"title"`
	URL        string    `json:"url" yaml:"url"`
	Published  time.Time `json:"published" yaml:"published"`
	Categories []string  `json:"categories" yaml:"categories"`
	Summary    string    `json:"summary" yaml:"summary"`
	Requester  Requester `json:"requester" yaml:"requester"`
}

// New builds the card for p.
func New(p types.Paper, summary string, r Requester) Card {
	return Card{
		Title:      p.Title,
		URL:        p.URL,
		Published:  p.Published,
		Categories: p.Categories,
		Summary:    summary,
		Requester:  r,
	}
}

// PublishedText returns the published timestamp as shown on the card.
func (c Card) PublishedText() string {
	if c.Published.IsZero() {
		return emptyValue
	}
	return c.Published.UTC().Format(PublishedFmt)
}

// CategoryText returns the categories as shown on the card.
func (c Card) CategoryText() string {
	if len(c.Categories) == 0 {
		return emptyValue
	}
	return strings.Join(c.Categories, ", ")
}

// Embed renders the card: the title links to the paper, followed by
// Published, Categories and Summary fields and the requester as author.
func (c Card) Embed() *discordgo.MessageEmbed {
	summary := strings.TrimSpace(c.Summary)
	if summary == "" {
		summary = emptyValue
	}

	return &discordgo.MessageEmbed{
		Title: clip(c.Title, maxTitleLen),
		URL:   c.URL,
		Color: PaperColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Published", Value: c.PublishedText(), Inline: true},
			{Name: "Categories", Value: clip(c.CategoryText(), maxFieldLen), Inline: true},
			{Name: "Summary", Value: clip(summary, maxFieldLen), Inline: false},
		},
		Author: author(c.Requester),
	}
}

// Notice renders a short message such as "no results" as an embed.
func Notice(text string, r Requester) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  clip(text, maxTitleLen),
		Color:  NoticeColor,
		Author: author(r),
	}
}

func author(r Requester) *discordgo.MessageEmbedAuthor {
	if r.Name == "" {
		return nil
	}
	return &discordgo.MessageEmbedAuthor{Name: r.Name, IconURL: r.AvatarURL}
}

// clip shortens s to at most max runes.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
