package openai

import (
	"context"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/settings"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"
)

// Engine talks to the OpenAI chat completions API or any compatible endpoint.
// The composed prompt is sent as a single user message.
type Engine struct {
	settings *settings.Settings
	client   *go_openai.Client
}

var _ engine.Engine = (*Engine)(nil)

func NewEngine(s *settings.Settings, apiKey string) (*Engine, error) {
	if s == nil {
		return nil, errors.New("no settings specified")
	}
	if apiKey == "" {
		return nil, errors.Wrap(engine.ErrMissingAPIKey, "openai")
	}

	config := go_openai.DefaultConfig(apiKey)
	if baseURL := s.BaseURL(); baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Engine{
		settings: s,
		client:   go_openai.NewClientWithConfig(config),
	}, nil
}

func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	req := go_openai.ChatCompletionRequest{
		Model: e.settings.Model,
		Messages: []go_openai.ChatCompletionMessage{
			{
				Role:    go_openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}
	if e.settings.Temperature != nil {
		req.Temperature = float32(*e.settings.Temperature)
	}
	if e.settings.TopP != nil {
		req.TopP = float32(*e.settings.TopP)
	}
	if e.settings.MaxResponseTokens != nil {
		req.MaxTokens = *e.settings.MaxResponseTokens
	}

	startTime := time.Now()
	log.Debug().Str("model", req.Model).Int("prompt_len", len(prompt)).Msg("OpenAI chat completion started")

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Debug().Err(err).Dur("duration", time.Since(startTime)).Msg("OpenAI chat completion failed")
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.Wrap(engine.ErrEmptyCompletion, "openai")
	}

	log.Debug().
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("duration", time.Since(startTime)).
		Msg("OpenAI chat completion completed")
	return resp.Choices[0].Message.Content, nil
}
