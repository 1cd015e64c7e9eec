package prompt

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposer_DefaultLayout(t *testing.T) {
	c, err := NewComposer()
	require.NoError(t, err)

	p, err := c.Compose("How many pushups should I do?")
	require.NoError(t, err)
	assert.Equal(t, SystemContext+"\n\nUser: How many pushups should I do?\nAssistant:", p)
}

func TestComposer_UserTextIsVerbatim(t *testing.T) {
	c, err := NewComposer(WithSystemContext("ctx"))
	require.NoError(t, err)

	text := "{{ .SystemContext }} <b>&</b> " + "a very long question"
	p, err := c.Compose(text)
	require.NoError(t, err)
	assert.Equal(t, "ctx\n\nUser: "+text+"\nAssistant:", p)
}

func TestComposer_SystemContextIsFitness(t *testing.T) {
	assert.Contains(t, SystemContext, "professional fitness assistant")
	assert.Contains(t, SystemContext, "Do not:")
}

func TestComposer_CustomTemplateWithSprig(t *testing.T) {
	c, err := NewComposer(
		WithSystemContext("be brief"),
		WithTemplate(`{{ .SystemContext | upper }}|{{ .UserText | trim }}`),
	)
	require.NoError(t, err)

	p, err := c.Compose("  squats?  ")
	require.NoError(t, err)
	assert.Equal(t, "BE BRIEF|squats?", p)
}

func TestComposer_InvalidTemplate(t *testing.T) {
	_, err := NewComposer(WithTemplate("{{ .UserText"))
	require.Error(t, err)
}

func TestComposer_UnknownFieldFails(t *testing.T) {
	c, err := NewComposer(WithTemplate("{{ .History }}"))
	require.NoError(t, err)
	_, err = c.Compose("hi")
	require.Error(t, err)
}

func TestWithSystemContextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctx.txt")
	require.NoError(t, os.WriteFile(path, []byte("You coach runners."), 0644))

	opt, err := WithSystemContextFile(path)
	require.NoError(t, err)
	c, err := NewComposer(opt)
	require.NoError(t, err)
	assert.Equal(t, "You coach runners.", c.SystemContext())

	opt, err = WithSystemContextFile("")
	require.NoError(t, err)
	c, err = NewComposer(opt)
	require.NoError(t, err)
	assert.Equal(t, SystemContext, c.SystemContext())

	_, err = WithSystemContextFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
