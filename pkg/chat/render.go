package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Renderer turns markdown into terminal output.
type Renderer interface {
	Render(markdown string) string
}

type PlainRenderer struct{}

func (PlainRenderer) Render(markdown string) string {
	return strings.TrimRight(markdown, "\n") + "\n"
}

// GlamourRenderer styles markdown for a terminal.
type GlamourRenderer struct {
	renderer *glamour.TermRenderer
}

func NewGlamourRenderer(width int) (*GlamourRenderer, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not create markdown renderer")
	}
	return &GlamourRenderer{renderer: r}, nil
}

func (g *GlamourRenderer) Render(markdown string) string {
	out, err := g.renderer.Render(markdown)
	if err != nil {
		log.Debug().Err(err).Msg("markdown rendering failed, printing raw text")
		return PlainRenderer{}.Render(markdown)
	}
	return out
}

func roleLabel(r conversation.Role) string {
	switch r {
	case conversation.RoleUser:
		return "🧑 You"
	case conversation.RoleAssistant:
		return "🤖 Assistant"
	default:
		return string(r)
	}
}

// RenderTurn renders a turn with a role header.
func RenderTurn(r Renderer, t conversation.Turn) string {
	return fmt.Sprintf("%s\n%s", roleLabel(t.Role), r.Render(t.Content))
}
