// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summary/internal/command"
	"github.com/pdiddy/paper-summary/internal/config"
	"github.com/pdiddy/paper-summary/internal/discord"
	"github.com/pdiddy/paper-summary/internal/httputil"
	"github.com/pdiddy/paper-summary/internal/search"
	"github.com/pdiddy/paper-summary/internal/summarize"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Discord bot",
	Long: `Serve connects to Discord, registers /search_paper (for the configured
guild, or globally when no guild is set) and answers interactions until
interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("guild", "", "register the command for this guild only")
	serveCmd.Flags().Bool("cleanup", false, "delete the registered command on shutdown")

	_ = viper.BindPFlag(config.KeyDiscordGuildID, serveCmd.Flags().Lookup("guild"))
	_ = viper.BindPFlag(config.KeyDiscordCleanup, serveCmd.Flags().Lookup("cleanup"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := botConfig
	if err := cfg.Validate(); err != nil {
		return err
	}

	summarizer, err := summarize.NewOpenAIBackend(cfg.Summarizer, httputil.NewClient(cfg.Summarizer.HTTPConfig))
	if err != nil {
		return err
	}
	searcher := search.NewArxivClient(cfg.Search, httputil.NewClient(cfg.Search.HTTPConfig))
	handler := command.NewHandler(searcher, summarizer, cfg.Summarizer.Concurrency, slog.Default())

	bot, err := discord.New(cfg.Discord, handler, slog.Default())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Start(ctx); err != nil {
		return err
	}
	slog.Info("bot running", slog.String("model", summarizer.Model()), slog.Int("concurrency", cfg.Summarizer.Concurrency))

	<-ctx.Done()
	slog.Info("shutting down")
	return bot.Stop()
}
