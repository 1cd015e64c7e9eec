package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/conversation"
	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/events"
	"github.com/go-go-golems/fitcoach/pkg/prompt"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var (
	// ErrMissingCredential is returned when a response is requested without a
	// credential. No turn is appended and the model is not called.
	ErrMissingCredential = errors.New("missing credential")
	ErrEmptyInput        = errors.New("empty user input")
	ErrSessionNil        = errors.New("session is nil")
)

const apologyPrefix = "I apologize, but I encountered an error. Please try again or contact support. Error: "

// Apology is the assistant text shown when the model call failed.
func Apology(err error) string {
	return apologyPrefix + err.Error()
}

type Outcome string

const (
	OutcomeOK                  Outcome = "ok"
	OutcomeExternalCallFailure Outcome = "external-call-failure"
)

// Reply is the assistant answer to one user turn. A failed model call is still a
// Reply: Text holds the apology and Err the underlying failure.
type Reply struct {
	Text string
	Kind Outcome
	Err  error
}

func (r *Reply) Failed() bool {
	return r.Kind == OutcomeExternalCallFailure
}

// Pipeline answers user text by composing the prompt and calling a freshly built
// engine. Each call is independent of the previous ones.
type Pipeline struct {
	composer *prompt.Composer
	factory  engine.Factory
	sinks    []events.EventSink
}

type Option func(*Pipeline)

func WithEventSinks(sinks ...events.EventSink) Option {
	return func(p *Pipeline) {
		p.sinks = append(p.sinks, sinks...)
	}
}

func NewPipeline(composer *prompt.Composer, factory engine.Factory, options ...Option) (*Pipeline, error) {
	if composer == nil {
		return nil, errors.New("no prompt composer specified")
	}
	if factory == nil {
		return nil, errors.New("no engine factory specified")
	}
	ret := &Pipeline{
		composer: composer,
		factory:  factory,
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

// Respond returns the assistant reply for userText.
//
// It returns ErrEmptyInput or ErrMissingCredential without calling the model.
// Every failure after that point is turned into an apology Reply and never
// returned as an error.
func (p *Pipeline) Respond(ctx context.Context, credential string, userText string) (*Reply, error) {
	return p.respond(ctx, "", credential, userText)
}

func (p *Pipeline) respond(ctx context.Context, sessionID string, credential string, userText string) (*Reply, error) {
	ctx = events.WithEventSinks(ctx, p.sinks...)
	metadata := events.NewEventMetadata(sessionID, p.factory.Name())

	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyInput
	}
	if credential == "" {
		events.PublishEventToContext(ctx, events.NewMissingCredentialEvent(metadata))
		return nil, ErrMissingCredential
	}

	fullPrompt, err := p.composer.Compose(userText)
	if err != nil {
		return p.failure(ctx, metadata, errors.Wrap(err, "compose prompt")), nil
	}

	e, err := p.factory.NewEngine(credential)
	if err != nil {
		return p.failure(ctx, metadata, errors.Wrap(err, "configure model")), nil
	}

	startTime := time.Now()
	events.PublishEventToContext(ctx, events.NewStartEvent(metadata))
	log.Debug().
		Str("session_id", sessionID).
		Str("engine", p.factory.Name()).
		Int("prompt_len", len(fullPrompt)).
		Msg("calling model")

	text, err := p.complete(ctx, e, fullPrompt)
	d := time.Since(startTime).Milliseconds()
	metadata.DurationMs = &d
	if err != nil {
		return p.failure(ctx, metadata, err), nil
	}

	events.PublishEventToContext(ctx, events.NewFinalEvent(metadata, text))
	return &Reply{Text: text, Kind: OutcomeOK}, nil
}

// complete calls the engine and turns a panic into an error, so a misbehaving
// provider client can not end the chat.
func (p *Pipeline) complete(ctx context.Context, e engine.Engine, fullPrompt string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("model call panicked: %v", r)
		}
	}()
	return e.Complete(ctx, fullPrompt)
}

func (p *Pipeline) failure(ctx context.Context, metadata events.EventMetadata, err error) *Reply {
	log.Warn().Err(err).Str("session_id", metadata.SessionID).Msg("model call failed")
	events.PublishEventToContext(ctx, events.NewErrorEvent(metadata, err))
	return &Reply{
		Text: Apology(err),
		Kind: OutcomeExternalCallFailure,
		Err:  err,
	}
}

// Submit runs one full chat step on s: the user turn is appended, the model is
// asked, and the reply (or apology) is appended as an assistant turn.
//
// When the session has no credential, ErrMissingCredential is returned and the
// transcript is left untouched.
func (p *Pipeline) Submit(ctx context.Context, s *session.Session, userText string) (*Reply, error) {
	if s == nil {
		return nil, ErrSessionNil
	}
	if strings.TrimSpace(userText) == "" {
		return nil, ErrEmptyInput
	}
	credential, ok := s.Credential()
	if !ok {
		events.PublishEventToContext(
			events.WithEventSinks(ctx, p.sinks...),
			events.NewMissingCredentialEvent(events.NewEventMetadata(s.ID, p.factory.Name())),
		)
		return nil, ErrMissingCredential
	}

	if err := s.Append(conversation.NewUserTurn(userText)); err != nil {
		return nil, errors.Wrap(err, "append user turn")
	}

	reply, err := p.respond(ctx, s.ID, credential, userText)
	if err != nil {
		return nil, err
	}

	if err := s.Append(conversation.NewAssistantTurn(reply.Text)); err != nil {
		return nil, errors.Wrap(err, "append assistant turn")
	}
	return reply, nil
}

// EngineName describes the provider behind the pipeline.
func (p *Pipeline) EngineName() string {
	return p.factory.Name()
}

func (r *Reply) String() string {
	if r.Failed() {
		return fmt.Sprintf("%s (%s)", r.Text, r.Kind)
	}
	return r.Text
}
