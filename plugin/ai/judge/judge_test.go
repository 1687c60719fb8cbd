package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_MatchesAnswers(t *testing.T) {
	j := New()

	tests := []struct {
		name     string
		answer   string
		keywords []string
		correct  bool
		method   MatchMethod
	}{
		{"case-insensitive substring", "My Daughter", []string{"daughter"}, true, MatchExact},
		{"fuzzy misspelling", "dauter", []string{"daughter"}, true, MatchFuzzy},
		{"unrelated word", "cat", []string{"daughter"}, false, MatchNone},
		{"fuzzy token within sentence", "I think it's my neice", []string{"niece"}, true, MatchFuzzy},
		{"any keyword matches", "we went to paris", []string{"london", "paris"}, true, MatchExact},
		{"empty keywords", "alice", nil, false, MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := j.Evaluate(tt.answer, tt.keywords, 0)
			assert.Equal(t, tt.correct, v.Correct)
			assert.Equal(t, tt.method, v.Method)
			assert.Equal(t, ReplySubstantive, v.Reply.Kind)
		})
	}
}

func TestEvaluate_NonSubstantiveNeverCorrect(t *testing.T) {
	j := New()

	ack := j.Evaluate("Okay!", []string{"okay"}, 1)
	assert.False(t, ack.Correct)
	assert.Equal(t, ReplyAcknowledgement, ack.Reply.Kind)
	assert.Equal(t, 1, ack.AttemptIndex)

	withdraw := j.Evaluate("I don't know, daughter?", []string{"daughter"}, 0)
	assert.False(t, withdraw.Correct)
	assert.Equal(t, ReplyWithdrawal, withdraw.Reply.Kind)
}

func TestMatch_SimilarityReported(t *testing.T) {
	v := New().Match("cat", []string{"daughter"})
	assert.InDelta(t, 4.0/11.0, v.Similarity, 1e-9)
}

func TestNewWithThreshold(t *testing.T) {
	assert.Equal(t, DefaultThreshold, NewWithThreshold(0).Threshold())
	assert.Equal(t, DefaultThreshold, NewWithThreshold(1.5).Threshold())

	strict := NewWithThreshold(0.9)
	assert.False(t, strict.Match("dauter", []string{"daughter"}).Correct)
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		answer string
		want   []string
	}{
		{"Alice", []string{"alice"}},
		{"My daughter Alice.", []string{"my daughter alice", "daughter", "alice"}},
		{"The park", []string{"the park", "park"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, Keywords(tt.answer))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"it's", "alice", "42"}, Tokenize("  It's ALICE! (42) -- "))
}
