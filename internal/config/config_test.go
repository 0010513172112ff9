// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-summary/internal/secrets"
	"github.com/pdiddy/paper-summary/pkg/types"
)

// clearEnv blanks every variable the loader reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range legacyEnv {
		t.Setenv(env, "")
	}
	for _, key := range []string{
		KeyDiscordToken, KeyDiscordGuildID, KeySummarizerKey, KeySummarizerModel,
		KeyConcurrency, KeyLogFormat, KeyLogLevel,
	} {
		t.Setenv(EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), "")
	}
}

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	clearEnv(t)
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadDefaults(t *testing.T) {
	v := newViper(t)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "https://export.arxiv.org/api/query", cfg.Search.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Search.Timeout)
	assert.Equal(t, "https://api.openai.com/v1", cfg.Summarizer.BaseURL)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Summarizer.Model)
	assert.Equal(t, 1, cfg.Summarizer.Concurrency)
	assert.Equal(t, "paper-summary/0.1", cfg.Summarizer.UserAgent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Discord.GuildID)

	assert.ErrorIs(t, cfg.Validate(), types.ErrMissingToken)
}

func TestLoadPrefixedEnv(t *testing.T) {
	v := newViper(t)
	t.Setenv("PAPER_SUMMARY_DISCORD_TOKEN", "tok")
	t.Setenv("PAPER_SUMMARY_DISCORD_GUILD_ID", "123456789012345678")
	t.Setenv("PAPER_SUMMARY_SUMMARIZER_API_KEY", "sk-test")
	t.Setenv("PAPER_SUMMARY_SUMMARIZER_CONCURRENCY", "3")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Discord.Token)
	assert.Equal(t, "123456789012345678", cfg.Discord.GuildID)
	assert.Equal(t, "sk-test", cfg.Summarizer.APIKey)
	assert.Equal(t, 3, cfg.Summarizer.Concurrency)
	assert.NoError(t, cfg.Validate())
}

func TestLoadLegacyEnv(t *testing.T) {
	v := newViper(t)
	t.Setenv("DISCORD_TOKEN", "legacy-token")
	t.Setenv("DISCORD_SERVER_ID", "42")
	t.Setenv("OPENAI_API_KEY", "sk-legacy")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "legacy-token", cfg.Discord.Token)
	assert.Equal(t, "42", cfg.Discord.GuildID)
	assert.Equal(t, "sk-legacy", cfg.Summarizer.APIKey)
}

func TestApplySecrets(t *testing.T) {
	v := newViper(t)
	t.Setenv("PAPER_SUMMARY_DISCORD_TOKEN", "from-env")

	ApplySecrets(v, map[string]string{
		secrets.DiscordToken: "from-file",
		secrets.OpenAIAPIKey: "sk-file",
	})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Discord.Token, "environment wins over secrets dir")
	assert.Equal(t, "sk-file", cfg.Summarizer.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		value  any
		errMsg string
	}{
		{"zero concurrency", KeyConcurrency, 0, KeyConcurrency},
		{"concurrency above cap", KeyConcurrency, 11, KeyConcurrency},
		{"guild not numeric", KeyDiscordGuildID, "my-server", "snowflake"},
		{"unknown log format", KeyLogFormat, "xml", KeyLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
