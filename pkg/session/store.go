package session

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Store keeps one Session per session identity (a cookie value, a terminal, ...).
// Sessions never share state with each other.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	options  []Option
}

// NewStore creates an empty store. The options are applied to every session the
// store creates.
func NewStore(options ...Option) *Store {
	return &Store{
		sessions: map[string]*Session{},
		options:  options,
	}
}

func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ret, ok := s.sessions[id]
	return ret, ok
}

// GetOrCreate returns the session for id, creating it on first use.
func (s *Store) GetOrCreate(id string) *Session {
	if ret, ok := s.Get(id); ok {
		return ret
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ret, ok := s.sessions[id]; ok {
		return ret
	}

	options := append([]Option{}, s.options...)
	options = append(options, WithID(id))
	ret := NewSession(options...)
	s.sessions[ret.ID] = ret
	log.Debug().Str("session_id", ret.ID).Int("session_count", len(s.sessions)).Msg("created session")
	return ret
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
