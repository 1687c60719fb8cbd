package hint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func threeRungs() *Ladder {
	return NewLadder([]string{"h0", "h1", "The answer was: Alice"}, "Alice")
}

func TestProgress_MissesClimbInOrder(t *testing.T) {
	p := NewProgress(threeRungs(), 0)

	h, ok := p.Miss()
	assert.True(t, ok)
	assert.Equal(t, "h0", h)

	h, ok = p.Miss()
	assert.True(t, ok)
	assert.Equal(t, "h1", h)
	assert.False(t, p.Revealed())

	h, ok = p.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "The answer was: Alice", h)
	assert.True(t, p.Revealed())

	_, ok = p.Reveal()
	assert.False(t, ok, "reveal rung must be shown at most once")
	assert.Equal(t, 3, p.HintsShown())
}

func fourRungs() *Ladder {
	return NewLadder([]string{"h0", "h1", "h2"}, "Alice")
}

func TestProgress_WithdrawJumpsTwo(t *testing.T) {
	p := NewProgress(fourRungs(), 0)

	h, ok := p.Withdraw()
	assert.True(t, ok)
	assert.Equal(t, "h2", h)
	assert.Equal(t, 3, p.Level())

	h, ok = p.Miss()
	assert.True(t, ok)
	assert.Equal(t, "h2", h, "misses after a withdrawal stay below the reveal")
	assert.False(t, p.Revealed())

	h, ok = p.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "The answer was: Alice", h)
}

func TestProgress_WithdrawClampsBelowReveal(t *testing.T) {
	p := NewProgress(threeRungs(), 0)

	h, ok := p.Withdraw()
	assert.True(t, ok)
	assert.Equal(t, "h1", h)
	assert.False(t, p.Revealed())
}

func TestProgress_BoostNeverReveals(t *testing.T) {
	p := NewProgress(Generate("Sarah"), 1)

	h, ok := p.Miss()
	assert.True(t, ok)
	assert.Equal(t, `Here is a clue: it starts with "S".`, h)

	h, ok = p.Miss()
	assert.True(t, ok)
	assert.NotContains(t, h, "Sarah")
	assert.False(t, p.Revealed())

	h, ok = p.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "The answer was: Sarah", h)
	assert.True(t, p.Revealed())
}

func TestProgress_RevealOnlyLadder(t *testing.T) {
	p := NewProgress(NewLadder([]string{"It was Alice"}, "Alice"), 0)

	_, ok := p.Miss()
	assert.False(t, ok)
	_, ok = p.Withdraw()
	assert.False(t, ok)
	assert.False(t, p.Revealed())

	h, ok := p.Reveal()
	assert.True(t, ok)
	assert.Equal(t, "It was Alice", h)
}

func TestProgress_NegativeBoost(t *testing.T) {
	p := NewProgress(threeRungs(), -3)
	h, _ := p.Miss()
	assert.Equal(t, "h0", h)
}
