package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want ReplyKind
	}{
		{"okay", ReplyAcknowledgement},
		{"  Thank you! ", ReplyAcknowledgement},
		{"Got it.", ReplyAcknowledgement},
		{"okay it was alice", ReplySubstantive},
		{"I don't know", ReplyWithdrawal},
		{"i dont know", ReplyWithdrawal},
		{"I’m not sure", ReplyWithdrawal},
		{"I can't remember that", ReplyWithdrawal},
		{"no idea", ReplyWithdrawal},
		{"Who came to visit?", ReplyMetaQuestion},
		{"what do you mean", ReplyMetaQuestion},
		{"Alice?", ReplySubstantive},
		{"my sister?", ReplySubstantive},
		{"Was it my sister?", ReplySubstantive},
		{"what, it was the park", ReplySubstantive},
		{"Alice", ReplySubstantive},
		{"Howard", ReplySubstantive},
		{"Whoopi", ReplySubstantive},
		{"Whole Foods", ReplySubstantive},
		{"however long it took, Boston", ReplySubstantive},
		{"Why, what happened there", ReplyMetaQuestion},
		{"what? I don't know", ReplyWithdrawal},
		{"", ReplySubstantive},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text).Kind)
		})
	}
}

func TestClassify_KeepsTrimmedText(t *testing.T) {
	assert.Equal(t, "Alice", Classify("  Alice \n").Text)
}

func TestReplyKind_IsNeutral(t *testing.T) {
	assert.True(t, ReplyAcknowledgement.IsNeutral())
	assert.True(t, ReplyMetaQuestion.IsNeutral())
	assert.False(t, ReplyWithdrawal.IsNeutral())
	assert.False(t, ReplySubstantive.IsNeutral())
	assert.Equal(t, "meta_question", ReplyMetaQuestion.String())
}
