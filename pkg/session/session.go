package session

import (
	"iter"
	"sync"

	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/google/uuid"
)

// Session represents one user's chat.
//
// It owns:
// - a stable ID
// - the transcript (append-only)
// - the credential used to talk to the model provider
//
// A Session is safe for use from several goroutines, but the chat flow itself
// expects a single logical user per session.
type Session struct {
	ID string

	transcript *conversation.Transcript

	mu         sync.Mutex
	credential string
}

type Option func(*Session)

func WithID(id string) Option {
	return func(s *Session) {
		s.ID = id
	}
}

func WithCredential(credential string) Option {
	return func(s *Session) {
		s.credential = credential
	}
}

func WithTranscript(t *conversation.Transcript) Option {
	return func(s *Session) {
		s.transcript = t
	}
}

// NewSession constructs a Session with a generated ID and an empty transcript.
func NewSession(options ...Option) *Session {
	s := &Session{}
	for _, option := range options {
		option(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.transcript == nil {
		s.transcript = conversation.NewTranscript()
	}
	return s
}

func (s *Session) Append(turn conversation.Turn) error {
	return s.transcript.Append(turn)
}

// All yields the transcript in insertion order, starting with the welcome turn.
func (s *Session) All() iter.Seq[conversation.Turn] {
	return s.transcript.All()
}

func (s *Session) Transcript() *conversation.Transcript {
	return s.transcript
}

// SetCredential overwrites the credential. The empty string clears it.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = credential
}

// Credential returns the current credential and whether one is set.
func (s *Session) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.credential != ""
}
