package prompt

import (
	_ "embed"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"
)

// SystemContext constrains the assistant to fitness topics. It is prepended to every
// user message.
//
//go:embed fitness.txt
var SystemContext string

// DefaultTemplate lays the system context, the user text and the assistant cue out
// as a single plain-text prompt.
const DefaultTemplate = "{{ .SystemContext }}\n\nUser: {{ .UserText }}\nAssistant:"

type templateData struct {
	SystemContext string
	UserText      string
}

// Composer renders the prompt sent to the model. Only the system context and the
// latest user text go into the prompt; earlier turns are never included.
type Composer struct {
	systemContext string
	tmpl          *template.Template
}

type ComposerOption func(*composerConfig)

type composerConfig struct {
	systemContext string
	template      string
}

func WithSystemContext(s string) ComposerOption {
	return func(c *composerConfig) {
		c.systemContext = s
	}
}

func WithTemplate(t string) ComposerOption {
	return func(c *composerConfig) {
		c.template = t
	}
}

// WithSystemContextFile reads the system context from path. An empty path keeps
// the embedded default.
func WithSystemContextFile(path string) (ComposerOption, error) {
	if path == "" {
		return func(*composerConfig) {}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read system context %s", path)
	}
	return WithSystemContext(string(b)), nil
}

func NewComposer(options ...ComposerOption) (*Composer, error) {
	cfg := &composerConfig{
		systemContext: SystemContext,
		template:      DefaultTemplate,
	}
	for _, option := range options {
		option(cfg)
	}

	tmpl, err := template.New("prompt").
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(cfg.template)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse prompt template")
	}

	return &Composer{
		systemContext: cfg.systemContext,
		tmpl:          tmpl,
	}, nil
}

func (c *Composer) SystemContext() string {
	return c.systemContext
}

// Compose returns the full prompt for userText. The user text is inserted
// verbatim, without truncation.
func (c *Composer) Compose(userText string) (string, error) {
	var sb strings.Builder
	err := c.tmpl.Execute(&sb, templateData{
		SystemContext: c.systemContext,
		UserText:      userText,
	})
	if err != nil {
		return "", errors.Wrap(err, "could not render prompt")
	}
	return sb.String(), nil
}
