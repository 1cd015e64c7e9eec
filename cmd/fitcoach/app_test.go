package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_EchoEngine(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("api-type", "echo")

	a, err := newApp()
	require.NoError(t, err)
	defer func() {
		_ = a.router.Close()
	}()

	assert.Equal(t, "echo/echo", a.factory.Name())
	s := session.NewSession(a.sessionOptions()...)
	reply, err := a.pipeline.Submit(context.Background(), s, "hi")
	require.NoError(t, err)
	assert.Equal(t, "You said: hi", reply.Text)
}

func TestNewApp_SeedsConfiguredKey(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("gemini-api-key", "from-config")

	a, err := newApp()
	require.NoError(t, err)
	defer func() {
		_ = a.router.Close()
	}()

	s := session.NewSession(a.sessionOptions()...)
	c, ok := s.Credential()
	require.True(t, ok)
	assert.Equal(t, "from-config", c)
}

func TestNewApp_InvalidTemplate(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("prompt-template", "{{ .UserText")

	_, err := newApp()
	require.Error(t, err)
}

func TestAskCommand(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("api-type", "echo")

	cmd := newAskCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"how", "many", "squats?"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "You said: how many squats?\n", out.String())
}

func TestInitLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.WarnLevel)

	require.NoError(t, InitLogger(&logConfig{Level: "debug", LogFormat: "json"}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, InitLogger(&logConfig{Level: "bogus"}))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
