// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package summarize asks a chat-completion API for a short Japanese summary
// of a paper's title and abstract.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/paper-summary/pkg/types"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = openai.GPT3Dot5Turbo

	// DefaultBaseURL is the OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
)

// SystemPrompt instructs the model to return a translated title followed by
// at most three Japanese bullet points of 50 characters or fewer.
const SystemPrompt = `### 指示 ###
論文の内容を理解した上で，重要なポイントを箇条書きで3点書いてください。

### 箇条書きの制約 ###
- 最大3個
- 日本語
- 箇条書き1個を50文字以内

### 出力形式 ###
タイトル（和名）

- 箇条書き1
- 箇条書き2
- 箇条書き3
`

var (
	// ErrUpstreamStatus matches any non-200 response from the API.
	ErrUpstreamStatus = errors.New("summarization API returned non-OK status")

	// ErrNoChoices is returned when a 200 response carries no choices.
	ErrNoChoices = errors.New("summarization API returned no choices")
)

// StatusError reports a non-200 response. It matches ErrUpstreamStatus.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("summarization API returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("summarization API returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is ErrUpstreamStatus.
func (e *StatusError) Is(target error) bool { return target == ErrUpstreamStatus }

// OpenAIBackend summarizes papers through an OpenAI-compatible chat API.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a backend from cfg, sending requests through hc.
func NewOpenAIBackend(cfg types.SummarizerConfig, hc *http.Client) (*OpenAIBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	var doer openai.HTTPDoer = http.DefaultClient
	if hc != nil {
		doer = hc
	}
	config.HTTPClient = statusRecorder{doer: doer}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}, nil
}

// Model returns the model identifier sent with each request.
func (b *OpenAIBackend) Model() string { return b.model }

// Summarize returns the first choice's text for p. Failures are errors, so
// an empty string with a nil error means the model produced empty text.
func (b *OpenAIBackend) Summarize(ctx context.Context, p types.Paper) (string, error) {
	var status int
	ctx = context.WithValue(ctx, statusKey{}, &status)

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    b.model,
		Messages: BuildMessages(p),
	})
	if err != nil {
		return "", classify(err, status)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildMessages returns the system instruction followed by the paper prompt.
func BuildMessages(p types.Paper) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: UserPrompt(p)},
	}
}

// UserPrompt formats the paper's title and abstract for the model.
func UserPrompt(p types.Paper) string {
	return fmt.Sprintf("title: %s\nbody: %s", p.Title, p.Abstract)
}

// statusKey carries a *int that statusRecorder fills with the response status.
type statusKey struct{}

// statusRecorder records the HTTP status of each response so failures can be
// classified even when the error body is not the API's JSON error format.
type statusRecorder struct {
	doer openai.HTTPDoer
}

func (s statusRecorder) Do(req *http.Request) (*http.Response, error) {
	resp, err := s.doer.Do(req)
	if err == nil {
		if p, ok := req.Context().Value(statusKey{}).(*int); ok {
			*p = resp.StatusCode
		}
	}
	return resp, err
}

// classify turns a failed call into a StatusError when a non-200 response
// was received, keeping the API's error message when one was decoded.
func classify(err error, status int) error {
	if status == 0 || status == http.StatusOK {
		return fmt.Errorf("calling summarization API: %w", err)
	}

	msg := http.StatusText(status)
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &StatusError{StatusCode: status, Message: msg}
}
