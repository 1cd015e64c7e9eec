package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAssistant || r == RoleUser
}

// Turn is a single message of the transcript, tagged with its author role.
//
// Turns are handed out by value, so a Turn read from a Transcript can not be used
// to mutate the history.
type Turn struct {
	ID      uuid.UUID `json:"id" yaml:"id"`
	Role    Role      `json:"role" yaml:"role"`
	Content string    `json:"content" yaml:"content"`
	Time    time.Time `json:"time" yaml:"time"`
}

type TurnOption func(*Turn)

func WithID(id uuid.UUID) TurnOption {
	return func(t *Turn) {
		t.ID = id
	}
}

func WithTime(ts time.Time) TurnOption {
	return func(t *Turn) {
		t.Time = ts
	}
}

func NewTurn(role Role, content string, options ...TurnOption) Turn {
	ret := Turn{
		ID:      uuid.New(),
		Role:    role,
		Content: content,
		Time:    time.Now(),
	}
	for _, option := range options {
		option(&ret)
	}
	return ret
}

func NewUserTurn(content string, options ...TurnOption) Turn {
	return NewTurn(RoleUser, content, options...)
}

func NewAssistantTurn(content string, options ...TurnOption) Turn {
	return NewTurn(RoleAssistant, content, options...)
}

func (t Turn) String() string {
	return t.Content
}

// View renders the turn as a single "[role]: text" line, the way the history
// command prints it.
func (t Turn) View() string {
	text := t.Content
	// If we are markdown, add a newline so that it stays valid markdown.
	if strings.HasPrefix(text, "```") {
		text = "\n" + text
	}
	return fmt.Sprintf("[%s]: %s", t.Role, strings.TrimRight(text, "\n"))
}
