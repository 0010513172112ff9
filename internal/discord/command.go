// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/pdiddy/paper-summary/internal/card"
	"github.com/pdiddy/paper-summary/internal/command"
)

// Option names of the search_paper command.
const (
	OptKeyword    = "keyword"
	OptMaxResult  = "max_result"
	OptCategories = "categories"
)

// SearchPaperCommand returns the application command definition. max_result
// only sets a lower bound so the handler can answer oversized requests with
// its own notice.
func SearchPaperCommand() *discordgo.ApplicationCommand {
	minResults := 1.0
	return &discordgo.ApplicationCommand{
		Name:        command.Name,
		Description: "arxiv 上の論文を検索します（投稿日時順）．",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptKeyword,
				Description: "検索キーワードを指定します．",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        OptMaxResult,
				Description: "取得する件数（10 件まで，なるべく少なく設定せよ）を指定します．",
				MinValue:    &minResults,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        OptCategories,
				Description: "検索するカテゴリーを指定します．カンマ区切りで複数のカテゴリを指定します（OR 検索）．",
			},
		},
	}
}

// ParseInvocation reads the command options and requester from an
// interaction. max_result defaults to 1 when omitted.
func ParseInvocation(in *discordgo.Interaction) command.Invocation {
	inv := command.Invocation{
		MaxResults: 1,
		Requester:  Requester(in),
	}

	data, ok := in.Data.(discordgo.ApplicationCommandInteractionData)
	if !ok {
		return inv
	}
	for _, opt := range data.Options {
		switch opt.Name {
		case OptKeyword:
			inv.Keyword = opt.StringValue()
		case OptMaxResult:
			inv.MaxResults = int(opt.IntValue())
		case OptCategories:
			inv.Categories = opt.StringValue()
		}
	}
	return inv
}

// Requester identifies the invoking user: the guild nickname when present,
// then the global display name, then the username.
func Requester(in *discordgo.Interaction) card.Requester {
	var (
		u    *discordgo.User
		nick string
	)
	if in.Member != nil && in.Member.User != nil {
		u = in.Member.User
		nick = in.Member.Nick
	} else {
		u = in.User
	}
	if u == nil {
		return card.Requester{}
	}

	name := nick
	if name == "" {
		name = u.GlobalName
	}
	if name == "" {
		name = u.Username
	}
	return card.Requester{Name: name, AvatarURL: u.AvatarURL("")}
}
