package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintFor_Clamped(t *testing.T) {
	l := NewLadder([]string{"h0", "h1", "The answer was Alice"}, "Alice")
	require.Equal(t, 3, l.Len())

	tests := []struct {
		level int
		want  string
	}{
		{-1, "h0"},
		{0, "h0"},
		{1, "h1"},
		{2, "The answer was Alice"},
		{99, "The answer was Alice"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.HintFor(tt.level), "level %d", tt.level)
	}
	assert.True(t, l.IsReveal(99))
	assert.False(t, l.IsReveal(1))
}

func TestNewLadder_AppendsReveal(t *testing.T) {
	l := NewLadder([]string{"She is family", " ", "Starts with A"}, "Alice")
	assert.Equal(t, []string{"She is family", "Starts with A", "The answer was: Alice"}, l.Rungs())
}

func TestNewLadder_EmptyGenerates(t *testing.T) {
	l := NewLadder(nil, "Rose Garden")
	require.Equal(t, 3, l.Len())
	assert.Equal(t, `Here is a clue: it starts with "R" and has 2 words.`, l.HintFor(1))
	assert.Equal(t, "The answer was: Rose Garden", l.RevealHint())
}

func TestGenerate_SingleWord(t *testing.T) {
	l := Generate("alice")
	assert.Equal(t, `Here is a clue: it starts with "A".`, l.HintFor(1))
}

func TestGenerate_NonLetter(t *testing.T) {
	l := Generate("")
	assert.Contains(t, l.HintFor(1), "people and places")
	assert.Equal(t, "The answer was: ", l.RevealHint())
}
