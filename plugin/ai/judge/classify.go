package judge

import (
	"strings"
)

// ReplyKind tags how a free-text reply should be handled before matching.
type ReplyKind int

const (
	// ReplySubstantive is an answer attempt.
	ReplySubstantive ReplyKind = iota
	// ReplyAcknowledgement is a neutral filler such as "okay" or "thanks".
	ReplyAcknowledgement
	// ReplyWithdrawal is an explicit "I don't know".
	ReplyWithdrawal
	// ReplyMetaQuestion is the patient asking a question back.
	ReplyMetaQuestion
)

func (k ReplyKind) String() string {
	switch k {
	case ReplyAcknowledgement:
		return "acknowledgement"
	case ReplyWithdrawal:
		return "withdrawal"
	case ReplyMetaQuestion:
		return "meta_question"
	default:
		return "substantive"
	}
}

// IsNeutral reports whether the reply does not consume an attempt.
func (k ReplyKind) IsNeutral() bool {
	return k == ReplyAcknowledgement || k == ReplyMetaQuestion
}

// Reply is a classified patient reply.
type Reply struct {
	Kind ReplyKind
	Text string
}

var acknowledgements = []string{
	"okay",
	"ok",
	"thanks",
	"thank you",
	"got it",
	"i see",
	"alright",
	"understood",
}

var withdrawalPhrases = []string{
	"i don't know",
	"i dont know",
	"don't know",
	"dont know",
	"not sure",
	"can't remember",
	"cant remember",
	"no idea",
}

var questionWords = []string{"who", "what", "when", "where", "why", "how"}

// statementPatterns mark a guess phrased as a question ("was it my sister?").
var statementPatterns = []string{"was it my", "was it your", "is it my", "is it your", "it was", "it is"}

// Classify tags a reply as acknowledgement, withdrawal, meta-question or substantive.
// Checks run in that order, so "what? I don't know" is a withdrawal.
func Classify(text string) Reply {
	reply := Reply{Kind: ReplySubstantive, Text: strings.TrimSpace(text)}
	lower := normalizeReply(text)

	bare := strings.Trim(lower, " .,!?")
	for _, ack := range acknowledgements {
		if bare == ack {
			reply.Kind = ReplyAcknowledgement
			return reply
		}
	}
	for _, phrase := range withdrawalPhrases {
		if strings.Contains(lower, phrase) {
			reply.Kind = ReplyWithdrawal
			return reply
		}
	}
	if isQuestion(lower) {
		reply.Kind = ReplyMetaQuestion
	}
	return reply
}

// isQuestion expects lowercased, trimmed text.
func isQuestion(lower string) bool {
	// Short replies with '?' are uncertain answers, not questions.
	words := strings.Fields(strings.ReplaceAll(lower, "?", ""))
	if len(words) <= 2 && strings.Contains(lower, "?") {
		return false
	}
	for _, pattern := range statementPatterns {
		if strings.Contains(lower, pattern) {
			return false
		}
	}
	if len(words) == 0 {
		return false
	}
	first := strings.TrimRight(words[0], ".,!;:")
	for _, w := range questionWords {
		if first == w {
			return true
		}
	}
	return false
}

func normalizeReply(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.NewReplacer("’", "'", "‘", "'").Replace(lower)
}
