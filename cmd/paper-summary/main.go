// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the paper-summary CLI: the Discord bot
// (serve) and a console rendition of the same search_paper command (search).
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summary/internal/config"
	"github.com/pdiddy/paper-summary/internal/logger"
	"github.com/pdiddy/paper-summary/internal/secrets"
	"github.com/pdiddy/paper-summary/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// botConfig holds the configuration resolved in PersistentPreRunE.
var botConfig types.BotConfig

// rootCmd is the base command for the paper-summary CLI.
var rootCmd = &cobra.Command{
	Use:   "paper-summary",
	Short: "Search arXiv and post Japanese paper summaries to Discord",
	Long: `paper-summary runs a Discord bot exposing the /search_paper command. The
command searches arXiv for recent preprints matching a keyword, asks a chat
completion API for a short Japanese summary of each paper, and posts one
card per paper.

The search subcommand runs the same pipeline from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(dir)
		if err != nil {
			return err
		}
		config.ApplySecrets(viper.GetViper(), s)

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		botConfig = cfg

		slog.SetDefault(logger.New(os.Stderr, cfg.Log.Level, cfg.Log.Format))
		if len(s) > 0 {
			slog.Debug("loaded secrets", slog.Int("count", len(s)))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: paper-summary.yaml in . or ~/.config/paper-summary/)")
	rootCmd.PersistentFlags().String("secrets-dir", secrets.DefaultDir, "directory of secret files (discord-token, openai-api-key)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "warning: reading .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("paper-summary")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "paper-summary"))
		}
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
