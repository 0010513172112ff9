// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discord connects the search_paper command to Discord: it opens the
// gateway session, registers the slash command for one guild or globally, and
// answers each interaction through a Responder.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/pdiddy/paper-summary/internal/command"
	"github.com/pdiddy/paper-summary/pkg/types"
)

// interactionTimeout stays under Discord's 15 minute interaction token lifetime.
const interactionTimeout = 14 * time.Minute

// Runner executes one command invocation.
type Runner interface {
	Run(ctx context.Context, inv command.Invocation, out command.Responder) error
}

// Bot owns the Discord session.
type Bot struct {
	session *discordgo.Session
	runner  Runner
	cfg     types.DiscordConfig
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	registered []*discordgo.ApplicationCommand
}

// New creates a bot that dispatches search_paper to runner.
func New(cfg types.DiscordConfig, runner Runner, logger *slog.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, types.ErrMissingToken
	}
	if logger == nil {
		logger = slog.Default()
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Bot{
		session: session,
		runner:  runner,
		cfg:     cfg,
		logger:  logger.With(slog.String("platform", "discord")),
	}, nil
}

// Start opens the gateway connection and registers the command.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx, b.cancel = context.WithCancel(ctx)

	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("connected", slog.String("user", r.User.Username), slog.Int("guilds", len(r.Guilds)))
	})
	b.session.AddHandler(b.onInteraction)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}

	if err := b.register(); err != nil {
		b.session.Close()
		return err
	}
	return nil
}

// register creates the slash command, scoped to the configured guild if any.
func (b *Bot) register() error {
	appID := b.session.State.User.ID
	cmd, err := b.session.ApplicationCommandCreate(appID, b.cfg.GuildID, SearchPaperCommand())
	if err != nil {
		return fmt.Errorf("registering /%s: %w", command.Name, err)
	}

	scope := "global"
	if b.cfg.GuildID != "" {
		scope = "guild:" + b.cfg.GuildID
	}
	b.logger.Info("command registered", slog.String("command", cmd.Name), slog.String("scope", scope))

	b.mu.Lock()
	b.registered = append(b.registered, cmd)
	b.mu.Unlock()
	return nil
}

// Stop waits for running invocations, removes registered commands when
// configured to, and closes the session.
func (b *Bot) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.wg.Wait()

	if b.cfg.CleanupCommands && b.session.State.User != nil {
		b.mu.Lock()
		cmds := b.registered
		b.registered = nil
		b.mu.Unlock()

		for _, cmd := range cmds {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.cfg.GuildID, cmd.ID); err != nil {
				b.logger.Warn("command cleanup failed", slog.String("command", cmd.Name), slog.Any("error", err))
			}
		}
	}
	return b.session.Close()
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.ApplicationCommandData().Name != command.Name {
		return
	}

	if b.ctx.Err() != nil {
		return
	}
	b.wg.Add(1)
	defer b.wg.Done()

	ctx, cancel := context.WithTimeout(b.ctx, interactionTimeout)
	defer cancel()

	inv := ParseInvocation(i.Interaction)
	inv.ID = uuid.NewString()
	out := NewResponder(s, i.Interaction)

	if err := b.runner.Run(ctx, inv, out); err != nil {
		b.logger.Error("command failed",
			slog.String("invocation_id", inv.ID),
			slog.String("guild_id", i.GuildID),
			slog.Any("error", err))
		if nerr := out.Notice(ctx, command.NoticeFailed); nerr != nil {
			b.logger.Warn("failure notice not sent", slog.String("invocation_id", inv.ID), slog.Any("error", nerr))
		}
	}
}
