package conversation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *Transcript) []Turn {
	ret := []Turn{}
	for turn := range t.All() {
		ret = append(ret, turn)
	}
	return ret
}

func TestTranscript_AllInsertsWelcomeOnce(t *testing.T) {
	tr := NewTranscript()
	require.Equal(t, 0, tr.Len())

	first := collect(tr)
	require.Len(t, first, 1)
	assert.Equal(t, RoleAssistant, first[0].Role)
	assert.Equal(t, WelcomeMessage, first[0].Content)

	second := collect(tr)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 1, tr.Len())
}

func TestTranscript_PreservesAppendOrder(t *testing.T) {
	tr := NewTranscript()
	_ = collect(tr)

	texts := []string{"one", "two", "three", "four"}
	for _, text := range texts {
		require.NoError(t, tr.Append(NewUserTurn(text)))
	}

	turns := collect(tr)
	require.Len(t, turns, len(texts)+1)
	assert.Equal(t, WelcomeMessage, turns[0].Content)
	for i, text := range texts {
		assert.Equal(t, text, turns[i+1].Content)
		assert.Equal(t, RoleUser, turns[i+1].Role)
	}
}

func TestTranscript_NoWelcomeWhenNotEmpty(t *testing.T) {
	tr := NewTranscript(WithTurns(NewUserTurn("hi")))
	turns := collect(tr)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].Content)
}

func TestTranscript_CustomWelcome(t *testing.T) {
	tr := NewTranscript(WithWelcome("hello there"))
	turns := tr.Turns()
	require.Len(t, turns, 1)
	assert.Equal(t, "hello there", turns[0].Content)
}

func TestTranscript_AllIsRestartableAndStoppable(t *testing.T) {
	tr := NewTranscript()
	require.NoError(t, tr.Append(NewUserTurn("a")))
	require.NoError(t, tr.Append(NewAssistantTurn("b")))

	seq := tr.All()
	count := 0
	for range seq {
		count++
		break
	}
	assert.Equal(t, 1, count)

	count = 0
	for range seq {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestTranscript_AppendRejectsUnknownRole(t *testing.T) {
	tr := NewTranscript()
	err := tr.Append(Turn{Role: "system", Content: "nope"})
	require.ErrorIs(t, err, ErrInvalidTurn)
	assert.Equal(t, 0, tr.Len())

	err = tr.Append(Turn{})
	require.ErrorIs(t, err, ErrInvalidTurn)
}

func TestTranscript_TurnsAreCopies(t *testing.T) {
	tr := NewTranscript()
	require.NoError(t, tr.Append(NewUserTurn("original")))

	turns := tr.Turns()
	turns[0].Content = "changed"

	assert.Equal(t, "original", tr.Turns()[0].Content)
}

func TestTranscript_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	tr := NewTranscript()
	_ = tr.Turns()
	require.NoError(t, tr.Append(NewUserTurn("How many pushups should I do?")))
	require.NoError(t, tr.Append(NewAssistantTurn("Aim for 3 sets of 10.")))

	for _, name := range []string{"chat.json", "chat.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "nested", name)
			require.NoError(t, tr.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			want := tr.Turns()
			got := loaded.Turns()
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].ID, got[i].ID)
				assert.Equal(t, want[i].Role, got[i].Role)
				assert.Equal(t, want[i].Content, got[i].Content)
			}
		})
	}
}

func TestTurn_View(t *testing.T) {
	assert.Equal(t, "[user]: hi", NewUserTurn("hi\n").View())
	assert.Equal(t, "[assistant]: \n```go\nx\n```", NewAssistantTurn("```go\nx\n```").View())
}
