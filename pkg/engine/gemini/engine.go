package gemini

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/settings"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Engine talks to the Google Gemini API.
type Engine struct {
	settings *settings.Settings
	apiKey   string
}

var _ engine.Engine = (*Engine)(nil)

func NewEngine(s *settings.Settings, apiKey string) (*Engine, error) {
	if s == nil {
		return nil, errors.New("no settings specified")
	}
	if apiKey == "" {
		return nil, errors.Wrap(engine.ErrMissingAPIKey, "gemini")
	}
	return &Engine{settings: s, apiKey: apiKey}, nil
}

// Complete sends the prompt as a single text part and concatenates the text parts
// of the returned candidates.
func (e *Engine) Complete(ctx context.Context, prompt string) (string, error) {
	opts := []option.ClientOption{option.WithAPIKey(e.apiKey)}
	if baseURL := e.settings.BaseURL(); baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", errors.Wrap(err, "failed to create gemini client")
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close gemini client")
		}
	}()

	model := client.GenerativeModel(e.settings.Model)
	model.GenerationConfig = generationConfig(e.settings)

	startTime := time.Now()
	log.Debug().Str("model", e.settings.Model).Int("prompt_len", len(prompt)).Msg("Gemini GenerateContent started")

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Debug().Err(err).Dur("duration", time.Since(startTime)).Msg("Gemini GenerateContent failed")
		return "", errors.Wrap(err, "gemini generate content")
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}
	log.Debug().
		Int("response_len", len(text)).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini GenerateContent completed")
	return text, nil
}

func generationConfig(s *settings.Settings) genai.GenerationConfig {
	cfg := genai.GenerationConfig{}
	if s.Temperature != nil {
		v := float32(*s.Temperature)
		cfg.Temperature = &v
	}
	if s.TopP != nil {
		v := float32(*s.TopP)
		cfg.TopP = &v
	}
	if s.MaxResponseTokens != nil {
		mt := *s.MaxResponseTokens
		var v int32
		switch {
		case mt < 0:
			log.Warn().Int("requested_max_tokens", mt).Msg("Negative MaxResponseTokens provided; clamping to 0")
			v = 0
		case mt > math.MaxInt32:
			log.Warn().Int("requested_max_tokens", mt).Msg("MaxResponseTokens exceeds int32; clamping")
			v = math.MaxInt32
		default:
			v = int32(mt) // #nosec G115
		}
		cfg.MaxOutputTokens = &v
	}
	return cfg
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", errors.Wrap(engine.ErrEmptyCompletion, "gemini returned a nil response")
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		// only the first candidate with content is used
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", errors.Wrapf(engine.ErrEmptyCompletion, "prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.Wrap(engine.ErrEmptyCompletion, "gemini")
	}
	return sb.String(), nil
}
