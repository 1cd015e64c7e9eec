package factory

import (
	"fmt"

	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/engine/gemini"
	"github.com/go-go-golems/fitcoach/pkg/engine/openai"
	"github.com/go-go-golems/fitcoach/pkg/settings"
	"github.com/pkg/errors"
)

// StandardFactory creates engines for the api type configured in the settings.
type StandardFactory struct {
	settings *settings.Settings
}

var _ engine.Factory = (*StandardFactory)(nil)

func NewStandardFactory(s *settings.Settings) (*StandardFactory, error) {
	if s == nil {
		return nil, errors.New("no settings specified")
	}
	if !s.ApiType.Valid() {
		return nil, errors.Errorf("unsupported api type %q", s.ApiType)
	}
	return &StandardFactory{settings: s.Clone()}, nil
}

func (f *StandardFactory) NewEngine(credential string) (engine.Engine, error) {
	switch f.settings.ApiType {
	case settings.ApiTypeGemini:
		e, err := gemini.NewEngine(f.settings, credential)
		if err != nil {
			return nil, err
		}
		return e, nil
	case settings.ApiTypeOpenAI:
		e, err := openai.NewEngine(f.settings, credential)
		if err != nil {
			return nil, err
		}
		return e, nil
	case settings.ApiTypeEcho:
		return engine.EchoEngine{}, nil
	default:
		return nil, errors.Errorf("unsupported api type %q", f.settings.ApiType)
	}
}

func (f *StandardFactory) Name() string {
	return fmt.Sprintf("%s/%s", f.settings.ApiType, f.settings.Model)
}

// Provider returns the human readable provider name shown in the chat header.
func (f *StandardFactory) Provider() string {
	switch f.settings.ApiType {
	case settings.ApiTypeGemini:
		return "Google Gemini"
	case settings.ApiTypeOpenAI:
		return "OpenAI"
	default:
		return "the echo engine"
	}
}
