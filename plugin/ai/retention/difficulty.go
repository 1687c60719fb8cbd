package retention

import "strings"

// Tier is a coarse difficulty level.
type Tier string

const (
	Easy   Tier = "easy"
	Medium Tier = "medium"
	Hard   Tier = "hard"
)

// ScoreWindow is how many recent session scores feed the controller.
const ScoreWindow = 5

// ParseTier parses a tier name, defaulting to Easy.
func ParseTier(s string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Medium:
		return Medium
	case Hard:
		return Hard
	default:
		return Easy
	}
}

// DifficultyFor maps session score percentages, oldest first, to a tier using
// the mean of the last ScoreWindow scores. No history means Easy.
func DifficultyFor(scores []float64) Tier {
	if len(scores) == 0 {
		return Easy
	}
	if len(scores) > ScoreWindow {
		scores = scores[len(scores)-ScoreWindow:]
	}
	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean := sum / float64(len(scores))

	switch {
	case mean >= 80:
		return Hard
	case mean >= 60:
		return Medium
	default:
		return Easy
	}
}

// Params are the knobs a tier feeds into fact selection and hinting.
type Params struct {
	// BatchSize is the number of facts to select.
	BatchSize int
	// HintBoost is added to every hint lookup.
	HintBoost int
}

// TierParams returns the selection and hint parameters of a tier.
func TierParams(t Tier) Params {
	switch t {
	case Hard:
		return Params{BatchSize: 5}
	case Medium:
		return Params{BatchSize: 4}
	default:
		return Params{BatchSize: 3, HintBoost: 1}
	}
}
