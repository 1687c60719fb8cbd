package hint

// Progress tracks how far a single fact has climbed its ladder.
// Levels only move forward.
type Progress struct {
	ladder   *Ladder
	level    int
	boost    int
	revealed bool
	shown    int
}

// NewProgress starts at level 0. boost is added to every lookup and lets
// easier tiers see more specific hints sooner.
func NewProgress(ladder *Ladder, boost int) *Progress {
	if boost < 0 {
		boost = 0
	}
	return &Progress{ladder: ladder, boost: boost}
}

// Miss returns the hint for an incorrect attempt and advances one level.
// Mid-loop hints stop one rung short of the reveal; ok is false when the
// ladder has no rung below it.
func (p *Progress) Miss() (string, bool) {
	text, ok := p.hint(p.level + p.boost)
	p.level++
	return text, ok
}

// Withdraw is Miss for an explicit "I don't know": the level moves forward
// two rungs before the lookup, so a first withdrawal shows rung 2.
func (p *Progress) Withdraw() (string, bool) {
	p.level += 2
	text, ok := p.hint(p.level + p.boost)
	p.level++
	return text, ok
}

// Reveal returns the answer-revealing rung unless it was already shown.
func (p *Progress) Reveal() (string, bool) {
	return p.show(p.ladder.Len() - 1)
}

// Level returns the next lookup level before boost.
func (p *Progress) Level() int {
	return p.level
}

// Revealed reports whether the reveal rung has been shown.
func (p *Progress) Revealed() bool {
	return p.revealed
}

// HintsShown returns how many hints were emitted.
func (p *Progress) HintsShown() int {
	return p.shown
}

// hint shows level clamped below the reveal rung.
func (p *Progress) hint(level int) (string, bool) {
	last := p.ladder.Len() - 2
	if last < 0 {
		return "", false
	}
	return p.show(min(level, last))
}

func (p *Progress) show(level int) (string, bool) {
	if p.ladder.IsReveal(level) {
		if p.revealed {
			return "", false
		}
		p.revealed = true
	}
	p.shown++
	return p.ladder.HintFor(level), true
}
