package main

import (
	"github.com/go-go-golems/fitcoach/pkg/engine/factory"
	"github.com/go-go-golems/fitcoach/pkg/events"
	"github.com/go-go-golems/fitcoach/pkg/pipeline"
	"github.com/go-go-golems/fitcoach/pkg/prompt"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/go-go-golems/fitcoach/pkg/settings"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// app wires the settings, prompt composer, engine factory and event router that
// all commands share.
type app struct {
	settings *settings.Settings
	factory  *factory.StandardFactory
	pipeline *pipeline.Pipeline
	router   *events.EventRouter
}

func newApp() (*app, error) {
	s, err := settings.NewSettingsFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}

	composerOptions := []prompt.ComposerOption{}
	if s.PromptTemplate != "" {
		composerOptions = append(composerOptions, prompt.WithTemplate(s.PromptTemplate))
	}
	contextOption, err := prompt.WithSystemContextFile(s.SystemContextFile)
	if err != nil {
		return nil, err
	}
	composerOptions = append(composerOptions, contextOption)
	composer, err := prompt.NewComposer(composerOptions...)
	if err != nil {
		return nil, err
	}

	f, err := factory.NewStandardFactory(s)
	if err != nil {
		return nil, err
	}

	router, err := events.NewEventRouter(events.WithVerbose(viper.GetBool("verbose")))
	if err != nil {
		return nil, err
	}
	router.AddHandler("log-chat-events", events.TopicChat, events.EventHandlerFunc(events.LogEvent))

	p, err := pipeline.NewPipeline(composer, f, pipeline.WithEventSinks(router.Sink(events.TopicChat)))
	if err != nil {
		return nil, err
	}

	log.Debug().Str("engine", f.Name()).Msg("configured pipeline")
	return &app{
		settings: s,
		factory:  f,
		pipeline: p,
		router:   router,
	}, nil
}

// sessionOptions seeds new sessions with a configured API key, if any.
func (a *app) sessionOptions() []session.Option {
	if key := a.settings.APIKey(); key != "" {
		return []session.Option{session.WithCredential(key)}
	}
	if a.settings.ApiType == settings.ApiTypeEcho {
		// the echo engine needs no key, but the pipeline still wants one
		return []session.Option{session.WithCredential("echo")}
	}
	return nil
}
