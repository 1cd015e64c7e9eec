package chat

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/pipeline"
	"github.com/go-go-golems/fitcoach/pkg/prompt"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFactory struct {
	reply string
	err   error
	calls int
}

func (f *staticFactory) NewEngine(credential string) (engine.Engine, error) {
	f.calls++
	return engine.EngineFunc(func(ctx context.Context, p string) (string, error) {
		return f.reply, f.err
	}), nil
}

func (f *staticFactory) Name() string {
	return "static"
}

func runREPL(t *testing.T, f *staticFactory, s *session.Session, input string) string {
	c, err := prompt.NewComposer()
	require.NoError(t, err)
	p, err := pipeline.NewPipeline(c, f)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	repl := NewREPL(p, s,
		WithInput(strings.NewReader(input)),
		WithOutput(out),
		WithProvider("Test Provider"),
		WithClock(func() time.Time {
			return time.Date(2024, 5, 1, 18, 7, 0, 0, time.UTC)
		}),
	)
	require.NoError(t, repl.Run(context.Background()))
	return out.String()
}

func TestREPL_ChatFlow(t *testing.T) {
	f := &staticFactory{reply: "Aim for 3 sets of 10."}
	s := session.NewSession()

	out := runREPL(t, f, s, "How many pushups should I do?\n/key secret\nHow many pushups should I do?\n/quit\n")

	assert.Contains(t, out, "Powered by Test Provider")
	assert.Contains(t, out, "👋 Welcome")
	assert.Contains(t, out, missingCredentialNotice)
	assert.Contains(t, out, "API key set.")
	assert.Contains(t, out, "Aim for 3 sets of 10.")
	assert.Contains(t, out, Disclaimer)
	assert.Equal(t, 1, f.calls)

	turns := s.Transcript().Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, conversation.RoleUser, turns[1].Role)
	assert.Equal(t, "Aim for 3 sets of 10.", turns[2].Content)

	c, ok := s.Credential()
	require.True(t, ok)
	assert.Equal(t, "secret", c)
}

func TestREPL_KeyPromptWithoutTerminal(t *testing.T) {
	f := &staticFactory{reply: "ok"}
	s := session.NewSession()

	out := runREPL(t, f, s, "/key\nprompted-key\n/key  \n")
	assert.Contains(t, out, "Enter API Key: ")
	assert.Contains(t, out, "API key set.")
	assert.Contains(t, out, "API key cleared.")
	_, ok := s.Credential()
	assert.False(t, ok)
}

func TestREPL_FailureIsShownAsAssistantMessage(t *testing.T) {
	f := &staticFactory{err: errors.New("permission denied")}
	s := session.NewSession(session.WithCredential("k"))

	out := runREPL(t, f, s, "hello")
	assert.Contains(t, out, "I apologize")
	assert.Contains(t, out, "permission denied")
	assert.Equal(t, 3, s.Transcript().Len())
}

func TestREPL_Commands(t *testing.T) {
	f := &staticFactory{reply: "ok"}
	s := session.NewSession(session.WithCredential("k"))
	path := filepath.Join(t.TempDir(), "chat.yaml")

	out := runREPL(t, f, s, "/help\n/info\nhi\n/history\n/save "+path+"\n/save\n/bogus\n")
	assert.Contains(t, out, "/save <file>")
	assert.Contains(t, out, "Monday-Friday: 6:00 AM - 10:00 PM")
	assert.Contains(t, out, "Current Time: 06:07 PM")
	assert.Contains(t, out, "[user]: hi")
	assert.Contains(t, out, "[assistant]: ok")
	assert.Contains(t, out, "Saved conversation to "+path)
	assert.Contains(t, out, "usage: /save <file>")
	assert.Contains(t, out, "unknown command /bogus")

	loaded, err := conversation.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Len())
}

func TestInfoPanel(t *testing.T) {
	p := NewInfoPanel(time.Date(2024, 1, 1, 7, 5, 0, 0, time.UTC))
	assert.Equal(t, "07:05 AM", p.CurrentTime)
	require.Len(t, p.Hours, 2)
	assert.Contains(t, p.Markdown(), "Saturday-Sunday: 7:00 AM - 8:00 PM")
	assert.Contains(t, p.Markdown(), "Consult a Trainer")
}

func TestPlainRenderer(t *testing.T) {
	assert.Equal(t, "hi\n", PlainRenderer{}.Render("hi\n\n"))
	out := RenderTurn(PlainRenderer{}, conversation.NewUserTurn("question"))
	assert.Equal(t, "🧑 You\nquestion\n", out)
}
