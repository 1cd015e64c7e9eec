package gemini

import (
	"testing"

	"github.com/go-go-golems/fitcoach/pkg/engine"
	"github.com/go-go-golems/fitcoach/pkg/settings"
	genai "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseText_ConcatenatesTextParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Aim for 3 sets "), genai.Text("of 10.")}}},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("ignored")}}},
		},
	}
	out, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "Aim for 3 sets of 10.", out)
}

func TestResponseText_SkipsEmptyCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}},
		},
	}
	out, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "second", out)
}

func TestResponseText_Empty(t *testing.T) {
	_, err := responseText(nil)
	require.ErrorIs(t, err, engine.ErrEmptyCompletion)

	_, err = responseText(&genai.GenerateContentResponse{})
	require.ErrorIs(t, err, engine.ErrEmptyCompletion)

	_, err = responseText(&genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety},
	})
	require.ErrorIs(t, err, engine.ErrEmptyCompletion)
	assert.Contains(t, err.Error(), "blocked")
}

func TestGenerationConfig(t *testing.T) {
	s := settings.NewSettings()
	cfg := generationConfig(s)
	assert.Nil(t, cfg.Temperature)
	assert.Nil(t, cfg.MaxOutputTokens)

	temp := 0.5
	maxTokens := -3
	s.Temperature = &temp
	s.MaxResponseTokens = &maxTokens
	cfg = generationConfig(s)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.5, *cfg.Temperature, 1e-6)
	require.NotNil(t, cfg.MaxOutputTokens)
	assert.Equal(t, int32(0), *cfg.MaxOutputTokens)
}

func TestNewEngine_MissingKey(t *testing.T) {
	_, err := NewEngine(settings.NewSettings(), "")
	require.ErrorIs(t, err, engine.ErrMissingAPIKey)
}
