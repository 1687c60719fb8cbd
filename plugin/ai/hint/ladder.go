// Package hint builds ordered hint ladders whose last rung reveals the answer.
package hint

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RevealPrefix starts the generated answer-revealing rung.
const RevealPrefix = "The answer was: "

// Ladder is an ordered list of increasingly specific hints.
// The last rung always reveals the answer.
type Ladder struct {
	rungs []string
}

// NewLadder builds a ladder from authored hints. When the last hint does not
// contain the answer, a reveal rung is appended.
func NewLadder(hints []string, answer string) *Ladder {
	rungs := make([]string, 0, len(hints)+1)
	for _, h := range hints {
		if h = strings.TrimSpace(h); h != "" {
			rungs = append(rungs, h)
		}
	}
	if len(rungs) == 0 {
		return Generate(answer)
	}
	last := strings.ToLower(rungs[len(rungs)-1])
	if answer != "" && !strings.Contains(last, strings.ToLower(strings.TrimSpace(answer))) {
		rungs = append(rungs, Reveal(answer))
	}
	return &Ladder{rungs: rungs}
}

// Generate builds a three-rung ladder for an answer with no authored hints:
// a gentle nudge, a first-letter and length clue, then the reveal.
func Generate(answer string) *Ladder {
	answer = strings.TrimSpace(answer)
	return &Ladder{rungs: []string{
		"Take your time and think back carefully.",
		clue(answer),
		Reveal(answer),
	}}
}

// Reveal returns the answer-revealing hint text.
func Reveal(answer string) string {
	return RevealPrefix + strings.TrimSpace(answer)
}

func clue(answer string) string {
	first, _ := utf8.DecodeRuneInString(answer)
	if first == utf8.RuneError || !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return "Here is a clue: think about the people and places close to you."
	}
	words := len(strings.Fields(answer))
	if words > 1 {
		return fmt.Sprintf("Here is a clue: it starts with %q and has %d words.", string(unicode.ToUpper(first)), words)
	}
	return fmt.Sprintf("Here is a clue: it starts with %q.", string(unicode.ToUpper(first)))
}

// Len returns the number of rungs.
func (l *Ladder) Len() int {
	return len(l.rungs)
}

// Rungs returns a copy of the rungs.
func (l *Ladder) Rungs() []string {
	return append([]string(nil), l.rungs...)
}

// HintFor returns the hint at level, clamped to the ladder bounds.
func (l *Ladder) HintFor(level int) string {
	return l.rungs[l.clamp(level)]
}

// IsReveal reports whether level lands on the answer-revealing rung.
func (l *Ladder) IsReveal(level int) bool {
	return l.clamp(level) == len(l.rungs)-1
}

// RevealHint returns the last rung.
func (l *Ladder) RevealHint() string {
	return l.rungs[len(l.rungs)-1]
}

func (l *Ladder) clamp(level int) int {
	if level < 0 {
		return 0
	}
	if level >= len(l.rungs) {
		return len(l.rungs) - 1
	}
	return level
}
