package types

import (
	"errors"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout bounds every outbound request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-summary/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the arXiv search client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// SummarizerConfig holds settings for the chat-completion client.
type SummarizerConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is sent as a bearer token.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL is the API root; "/chat/completions" is appended.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// Model is the chat model identifier (default "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// Concurrency is the number of summaries requested at once (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// ErrMissingAPIKey is returned when no summarization API key is configured.
var ErrMissingAPIKey = errors.New("summarizer API key is not configured")

// ErrMissingToken is returned when no Discord bot token is configured.
var ErrMissingToken = errors.New("discord bot token is not configured")

// Validate checks that the summarizer can authenticate.
func (c SummarizerConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// DiscordConfig holds bot credentials and command registration scope.
type DiscordConfig struct {
	// Token is the bot token from the Discord Developer Portal.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// GuildID scopes command registration to one guild. Empty registers globally.
	GuildID string `json:"guild_id,omitempty" yaml:"guild_id,omitempty"`

	// CleanupCommands deletes registered commands on shutdown.
	CleanupCommands bool `json:"cleanup_commands" yaml:"cleanup_commands"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "text" or "json".
	Format string `json:"format" yaml:"format"`
}

// BotConfig groups all configuration for the bot process.
type BotConfig struct {
	Discord    DiscordConfig    `json:"discord" yaml:"discord"`
	Search     SearchConfig     `json:"search" yaml:"search"`
	Summarizer SummarizerConfig `json:"summarizer" yaml:"summarizer"`
	Log        LogConfig        `json:"log" yaml:"log"`
}

// Validate checks the settings the bot cannot start without.
func (c BotConfig) Validate() error {
	if c.Discord.Token == "" {
		return ErrMissingToken
	}
	return c.Summarizer.Validate()
}
