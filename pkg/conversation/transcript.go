package conversation

import (
	"encoding/json"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// WelcomeMessage is shown as the first assistant turn of every new transcript.
const WelcomeMessage = `👋 Welcome! I'm your AI fitness assistant.
I can help you with general fitness advice and queries.
How can I assist you today?`

var ErrInvalidTurn = errors.New("invalid turn")

// Transcript is the ordered, append-only chat history of one session.
//
// The zero value is ready to use. Turns are never reordered or pruned.
type Transcript struct {
	mu      sync.RWMutex
	turns   []Turn
	welcome string
}

type TranscriptOption func(*Transcript)

// WithWelcome overrides the synthesized welcome text.
func WithWelcome(text string) TranscriptOption {
	return func(t *Transcript) {
		t.welcome = text
	}
}

func WithTurns(turns ...Turn) TranscriptOption {
	return func(t *Transcript) {
		t.turns = append(t.turns, turns...)
	}
}

func NewTranscript(options ...TranscriptOption) *Transcript {
	ret := &Transcript{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Append adds a turn to the end of the transcript. The only validation is that the
// turn carries a known role.
func (t *Transcript) Append(turn Turn) error {
	if !turn.Role.Valid() {
		return errors.Wrapf(ErrInvalidTurn, "unknown role %q", turn.Role)
	}

	t.mu.Lock()
	t.turns = append(t.turns, turn)
	n := len(t.turns)
	t.mu.Unlock()

	log.Trace().
		Str("turn_id", turn.ID.String()).
		Str("role", string(turn.Role)).
		Int("turn_count", n).
		Msg("appended turn")
	return nil
}

// All returns the transcript as a lazy sequence in insertion order. The sequence can
// be ranged over any number of times.
//
// Ranging over the sequence of an empty transcript first appends the welcome turn,
// so the welcome is inserted exactly once.
func (t *Transcript) All() iter.Seq[Turn] {
	return func(yield func(Turn) bool) {
		t.ensureWelcome()
		for i := 0; ; i++ {
			t.mu.RLock()
			if i >= len(t.turns) {
				t.mu.RUnlock()
				return
			}
			turn := t.turns[i]
			t.mu.RUnlock()

			if !yield(turn) {
				return
			}
		}
	}
}

// Turns returns a snapshot copy of the transcript, including the welcome turn.
func (t *Transcript) Turns() []Turn {
	ret := []Turn{}
	for turn := range t.All() {
		ret = append(ret, turn)
	}
	return ret
}

// Len returns the number of stored turns. It does not synthesize the welcome turn.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

func (t *Transcript) ensureWelcome() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.turns) > 0 {
		return
	}
	text := t.welcome
	if text == "" {
		text = WelcomeMessage
	}
	t.turns = append(t.turns, NewAssistantTurn(text))
	log.Trace().Msg("inserted welcome turn")
}

// SaveToFile writes the transcript to disk. Files ending in .yaml or .yml are
// written as YAML, everything else as indented JSON.
func (t *Transcript) SaveToFile(path string) error {
	turns := t.Turns()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "could not create directory %s", dir)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "could not create %s", path)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		encoder := yaml.NewEncoder(f)
		encoder.SetIndent(2)
		if err := encoder.Encode(turns); err != nil {
			return errors.Wrap(err, "could not encode transcript as yaml")
		}
		return encoder.Close()
	default:
		encoder := json.NewEncoder(f)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(turns); err != nil {
			return errors.Wrap(err, "could not encode transcript as json")
		}
		return nil
	}
}

// LoadFromFile reads a transcript previously written by SaveToFile.
func LoadFromFile(path string, options ...TranscriptOption) (*Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read %s", path)
	}

	var turns []Turn
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &turns)
	default:
		err = json.Unmarshal(b, &turns)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "could not decode %s", path)
	}

	ret := NewTranscript(options...)
	for _, turn := range turns {
		if err := ret.Append(turn); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
