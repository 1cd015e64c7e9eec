package engine

import (
	"context"

	"github.com/pkg/errors"
)

// Engine sends a single plain-text prompt to a language model and returns the
// completion text.
type Engine interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Factory builds an Engine for a given credential. Engines are built per call so
// that the latest credential of a session is always the one used.
type Factory interface {
	NewEngine(credential string) (Engine, error)
	// Name describes the provider and model, e.g. "gemini/gemini-1.0-pro".
	Name() string
}

type EngineFunc func(ctx context.Context, prompt string) (string, error)

func (f EngineFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

var (
	ErrEmptyCompletion = errors.New("model returned no text")
	ErrMissingAPIKey   = errors.New("missing API key")
)
