package settings

import (
	"strings"

	"github.com/huandu/go-clone"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type ApiType string

const (
	ApiTypeGemini ApiType = "gemini"
	ApiTypeOpenAI ApiType = "openai"
	ApiTypeEcho   ApiType = "echo"
)

const (
	DefaultGeminiModel = "gemini-1.0-pro"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// DefaultModel returns the model used when none is configured.
func DefaultModel(a ApiType) string {
	switch a {
	case ApiTypeOpenAI:
		return DefaultOpenAIModel
	case ApiTypeEcho:
		return "echo"
	default:
		return DefaultGeminiModel
	}
}

func (a ApiType) Valid() bool {
	switch a {
	case ApiTypeGemini, ApiTypeOpenAI, ApiTypeEcho:
		return true
	}
	return false
}

// Settings is the inference configuration shared by every session.
//
// API keys and base URLs are keyed the same way as the flags, e.g.
// "gemini-api-key" and "openai-base-url".
type Settings struct {
	ApiType           ApiType           `yaml:"api_type"`
	Model             string            `yaml:"model"`
	Temperature       *float64          `yaml:"temperature,omitempty"`
	TopP              *float64          `yaml:"top_p,omitempty"`
	MaxResponseTokens *int              `yaml:"max_response_tokens,omitempty"`
	APIKeys           map[string]string `yaml:"api_keys,omitempty"`
	BaseUrls          map[string]string `yaml:"base_urls,omitempty"`

	PromptTemplate    string `yaml:"prompt_template,omitempty"`
	SystemContextFile string `yaml:"system_context_file,omitempty"`
}

func NewSettings() *Settings {
	return &Settings{
		ApiType:  ApiTypeGemini,
		Model:    DefaultGeminiModel,
		APIKeys:  map[string]string{},
		BaseUrls: map[string]string{},
	}
}

func (s *Settings) Clone() *Settings {
	return clone.Clone(s).(*Settings)
}

// APIKey returns the configured key for the active api type, if any.
func (s *Settings) APIKey() string {
	return s.APIKeys[string(s.ApiType)+"-api-key"]
}

func (s *Settings) BaseURL() string {
	return s.BaseUrls[string(s.ApiType)+"-base-url"]
}

// NewSettingsFromViper reads the settings from the keys bound by the root command.
func NewSettingsFromViper(v *viper.Viper) (*Settings, error) {
	s := NewSettings()

	if apiType := strings.TrimSpace(v.GetString("api-type")); apiType != "" {
		s.ApiType = ApiType(strings.ToLower(apiType))
	}
	if !s.ApiType.Valid() {
		return nil, errors.Errorf("unknown api type %q", s.ApiType)
	}

	s.Model = DefaultModel(s.ApiType)
	if model := v.GetString("model"); model != "" {
		s.Model = model
	}

	if v.IsSet("temperature") {
		t := v.GetFloat64("temperature")
		s.Temperature = &t
	}
	if v.IsSet("top-p") {
		p := v.GetFloat64("top-p")
		s.TopP = &p
	}
	if v.IsSet("max-response-tokens") {
		m := v.GetInt("max-response-tokens")
		s.MaxResponseTokens = &m
	}

	for _, apiType := range []ApiType{ApiTypeGemini, ApiTypeOpenAI} {
		keyName := string(apiType) + "-api-key"
		if key := v.GetString(keyName); key != "" {
			s.APIKeys[keyName] = key
		}
		urlName := string(apiType) + "-base-url"
		if u := v.GetString(urlName); u != "" {
			s.BaseUrls[urlName] = u
		}
	}
	// --base-url applies to the active api type
	if u := v.GetString("base-url"); u != "" {
		s.BaseUrls[string(s.ApiType)+"-base-url"] = u
	}

	s.PromptTemplate = v.GetString("prompt-template")
	s.SystemContextFile = v.GetString("system-context-file")

	return s, nil
}
