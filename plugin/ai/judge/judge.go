// Package judge decides whether a free-text answer matches an expected answer.
// Matching is deterministic (substring, then per-token fuzzy similarity); an
// optional SemanticJudge may be consulted by callers on a deterministic miss.
package judge

import (
	"strings"
	"unicode"
)

// DefaultThreshold is the minimum similarity ratio for a fuzzy token match.
const DefaultThreshold = 0.75

// MatchMethod records which stage accepted an answer.
type MatchMethod string

const (
	MatchNone     MatchMethod = "none"
	MatchExact    MatchMethod = "exact"
	MatchFuzzy    MatchMethod = "fuzzy"
	MatchSemantic MatchMethod = "semantic"
)

// Verdict is the outcome of evaluating one reply.
type Verdict struct {
	Reply        Reply
	AttemptIndex int
	Correct      bool
	Method       MatchMethod
	// Keyword is the expected keyword that matched, if any.
	Keyword string
	// Similarity is the best fuzzy ratio seen, or 1 for an exact hit.
	Similarity float64
}

// Judge performs deterministic answer matching.
type Judge struct {
	threshold float64
}

// New creates a judge with the default threshold.
func New() *Judge {
	return &Judge{threshold: DefaultThreshold}
}

// NewWithThreshold creates a judge with a custom fuzzy threshold.
func NewWithThreshold(threshold float64) *Judge {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	return &Judge{threshold: threshold}
}

// Threshold returns the fuzzy acceptance threshold.
func (j *Judge) Threshold() float64 {
	return j.threshold
}

// Evaluate classifies the raw answer and, for substantive replies, matches it
// against the expected keywords. Non-substantive replies are never correct.
func (j *Judge) Evaluate(raw string, keywords []string, attemptIndex int) Verdict {
	reply := Classify(raw)
	if reply.Kind != ReplySubstantive {
		return Verdict{Reply: reply, AttemptIndex: attemptIndex, Method: MatchNone}
	}
	v := j.Match(reply.Text, keywords)
	v.Reply = reply
	v.AttemptIndex = attemptIndex
	return v
}

// Match checks the answer against the keywords without classifying it.
// A keyword contained case-insensitively in the answer is an exact hit;
// otherwise each answer token is compared with each keyword by Ratio.
func (j *Judge) Match(answer string, keywords []string) Verdict {
	lower := strings.ToLower(strings.TrimSpace(answer))
	v := Verdict{Reply: Reply{Kind: ReplySubstantive, Text: answer}, Method: MatchNone}
	if lower == "" {
		return v
	}

	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lower, kw) {
			v.Correct = true
			v.Method = MatchExact
			v.Keyword = kw
			v.Similarity = 1
			return v
		}
	}

	tokens := Tokenize(lower)
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		for _, token := range tokens {
			ratio := Ratio(token, kw)
			if ratio > v.Similarity {
				v.Similarity = ratio
			}
			if ratio >= j.threshold {
				v.Correct = true
				v.Method = MatchFuzzy
				v.Keyword = kw
				return v
			}
		}
	}
	return v
}

// Tokenize splits text into lowercase words, dropping surrounding punctuation.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "in": true, "on": true, "at": true, "for": true, "with": true,
	"is": true, "was": true, "are": true, "were": true, "be": true, "it": true,
	"my": true, "your": true, "his": true, "her": true, "our": true, "their": true,
	"i": true, "me": true, "you": true, "he": true, "she": true, "we": true, "they": true,
	"this": true, "that": true,
}

// Keywords derives expected keywords from an answer: the whole normalized
// answer plus every token that is not a stop word.
func Keywords(answer string) []string {
	tokens := Tokenize(answer)
	if len(tokens) == 0 {
		return nil
	}
	seen := make(map[string]bool)
	keywords := []string{}
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keywords = append(keywords, k)
		}
	}
	add(strings.Join(tokens, " "))
	for _, t := range tokens {
		if stopWords[t] || len([]rune(t)) < 2 {
			continue
		}
		add(t)
	}
	return keywords
}
