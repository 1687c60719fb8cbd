package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	const doc = `
facts:
  - prompt: "What is your daughter's name?"
    answer: Sarah
    topic: family
    hints:
      - She visits on Sundays.
      - Her name starts with S.
  - prompt: "  Where did you grow up?  "
    answer: Boston
    keywords: [boston, massachusetts]
`
	facts, err := parseSeed(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, "What is your daughter's name?", facts[0].Prompt)
	assert.Equal(t, "Sarah", facts[0].Answer)
	assert.Equal(t, "family", facts[0].Topic)
	assert.Equal(t, []string{"She visits on Sundays.", "Her name starts with S."}, facts[0].Hints)

	assert.Equal(t, "Where did you grow up?", facts[1].Prompt)
	assert.Equal(t, []string{"boston", "massachusetts"}, facts[1].Keywords)
	assert.Empty(t, facts[1].Topic)
}

func TestParseSeed_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{name: "empty document", doc: "", want: "no facts"},
		{name: "empty list", doc: "facts: []\n", want: "no facts"},
		{name: "missing answer", doc: "facts:\n  - prompt: Who?\n", want: "fact 1: prompt and answer are required"},
		{name: "unknown field", doc: "facts:\n  - prompt: Who?\n    answer: Me\n    colour: red\n", want: "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSeed(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
