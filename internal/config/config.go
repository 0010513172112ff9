// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves bot configuration from a viper instance: config
// file values, PAPER_SUMMARY_* environment variables, the legacy variable
// names, and finally the .secrets/ directory.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-summary/internal/secrets"
	"github.com/pdiddy/paper-summary/pkg/types"
)

// EnvPrefix is prepended to environment variable names.
const EnvPrefix = "PAPER_SUMMARY"

// Configuration keys.
const (
	KeyDiscordToken    = "discord.token"
	KeyDiscordGuildID  = "discord.guild_id"
	KeyDiscordCleanup  = "discord.cleanup_commands"
	KeySearchBaseURL   = "search.base_url"
	KeySearchTimeout   = "search.timeout"
	KeySummarizerKey   = "summarizer.api_key"
	KeySummarizerURL   = "summarizer.base_url"
	KeySummarizerModel = "summarizer.model"
	KeySummarizerTO    = "summarizer.timeout"
	KeyConcurrency     = "summarizer.concurrency"
	KeyUserAgent       = "http.user_agent"
	KeyLogLevel        = "log.level"
	KeyLogFormat       = "log.format"
)

// legacyEnv maps keys to the variable names the bot was first deployed with.
var legacyEnv = map[string]string{
	KeyDiscordToken:   "DISCORD_TOKEN",
	KeyDiscordGuildID: "DISCORD_SERVER_ID",
	KeySummarizerKey:  "OPENAI_API_KEY",
}

// secretFiles maps keys to files in the secrets directory.
var secretFiles = map[string]string{
	KeyDiscordToken:  secrets.DiscordToken,
	KeySummarizerKey: secrets.OpenAIAPIKey,
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySearchBaseURL, "https://export.arxiv.org/api/query")
	v.SetDefault(KeySearchTimeout, 30*time.Second)
	v.SetDefault(KeySummarizerURL, "https://api.openai.com/v1")
	v.SetDefault(KeySummarizerModel, "gpt-3.5-turbo")
	v.SetDefault(KeySummarizerTO, 60*time.Second)
	v.SetDefault(KeyConcurrency, 1)
	v.SetDefault(KeyDiscordCleanup, false)
	v.SetDefault(KeyUserAgent, "paper-summary/0.1")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, env := range legacyEnv {
		_ = v.BindEnv(key, env)
	}
}

// ApplySecrets fills keys that are still empty from the loaded secrets map.
func ApplySecrets(v *viper.Viper, s map[string]string) {
	for key, file := range secretFiles {
		if v.GetString(key) != "" {
			continue
		}
		if val, ok := s[file]; ok {
			v.Set(key, val)
		}
	}
}

// Load reads the bot configuration from v. It does not validate credentials;
// callers validate what their command needs.
func Load(v *viper.Viper) (types.BotConfig, error) {
	userAgent := v.GetString(KeyUserAgent)

	cfg := types.BotConfig{
		Discord: types.DiscordConfig{
			Token:           strings.TrimSpace(v.GetString(KeyDiscordToken)),
			GuildID:         strings.TrimSpace(v.GetString(KeyDiscordGuildID)),
			CleanupCommands: v.GetBool(KeyDiscordCleanup),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(KeySearchTimeout),
				UserAgent: userAgent,
			},
			BaseURL: v.GetString(KeySearchBaseURL),
		},
		Summarizer: types.SummarizerConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(KeySummarizerTO),
				UserAgent: userAgent,
			},
			APIKey:      strings.TrimSpace(v.GetString(KeySummarizerKey)),
			BaseURL:     v.GetString(KeySummarizerURL),
			Model:       v.GetString(KeySummarizerModel),
			Concurrency: v.GetInt(KeyConcurrency),
		},
		Log: types.LogConfig{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
		},
	}

	if cfg.Summarizer.Concurrency < 1 || cfg.Summarizer.Concurrency > types.MaxResultsLimit {
		return cfg, fmt.Errorf("%s must be between 1 and %d, got %d",
			KeyConcurrency, types.MaxResultsLimit, cfg.Summarizer.Concurrency)
	}
	if cfg.Discord.GuildID != "" && !isSnowflake(cfg.Discord.GuildID) {
		return cfg, fmt.Errorf("%s %q is not a Discord snowflake", KeyDiscordGuildID, cfg.Discord.GuildID)
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		return cfg, fmt.Errorf("%s must be text or json, got %q", KeyLogFormat, cfg.Log.Format)
	}
	return cfg, nil
}

// isSnowflake reports whether s is a decimal Discord ID.
func isSnowflake(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
