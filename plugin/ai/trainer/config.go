package trainer

import (
	"time"

	"github.com/hrygo/rehearse/internal/profile"
	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

// Config holds the knobs of one session.
type Config struct {
	// FactBatchSize is the number of facts to ask. 0 derives it from the difficulty tier.
	FactBatchSize int
	// WarmupDeadline bounds each read window of the warm-up exchange.
	WarmupDeadline time.Duration
	// PerAttemptDeadline bounds each read window of an answer.
	PerAttemptDeadline time.Duration
	// MaxAttempts is the number of answer attempts per fact.
	MaxAttempts int
	// SessionDeadline caps the whole session.
	SessionDeadline time.Duration
	// InputRetries is the number of read windows per answer.
	InputRetries int
	// WarmupRetries is the number of read windows for the warm-up reply.
	WarmupRetries int
	// MaxNeutralReplies caps acknowledgements and questions per fact.
	MaxNeutralReplies int
	SkipWarmup        bool
	// Difficulty forces a tier. Empty derives it from recent scores.
	Difficulty retention.Tier
	// PatientName is used in the greeting.
	PatientName string
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		WarmupDeadline:     timeout.WarmupTimeout,
		PerAttemptDeadline: timeout.AttemptTimeout,
		MaxAttempts:        timeout.MaxAttempts,
		SessionDeadline:    timeout.SessionTimeout,
		InputRetries:       timeout.InputRetries,
		WarmupRetries:      timeout.WarmupRetries,
		MaxNeutralReplies:  timeout.MaxNeutralReplies,
	}
}

// ConfigFromProfile builds a session configuration from the host profile.
func ConfigFromProfile(p *profile.Profile) Config {
	cfg := DefaultConfig()
	cfg.FactBatchSize = p.FactBatchSize
	cfg.SkipWarmup = p.SkipWarmup
	if p.WarmupTimeout > 0 {
		cfg.WarmupDeadline = p.WarmupTimeout
	}
	if p.AttemptTimeout > 0 {
		cfg.PerAttemptDeadline = p.AttemptTimeout
	}
	if p.SessionTimeout > 0 {
		cfg.SessionDeadline = p.SessionTimeout
	}
	if p.MaxAttempts > 0 {
		cfg.MaxAttempts = p.MaxAttempts
	}
	if p.InputRetries > 0 {
		cfg.InputRetries = p.InputRetries
	}
	if p.WarmupRetries > 0 {
		cfg.WarmupRetries = p.WarmupRetries
	}
	return cfg
}

// normalize fills zero values with defaults.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.WarmupDeadline <= 0 {
		c.WarmupDeadline = def.WarmupDeadline
	}
	if c.PerAttemptDeadline <= 0 {
		c.PerAttemptDeadline = def.PerAttemptDeadline
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.SessionDeadline <= 0 {
		c.SessionDeadline = def.SessionDeadline
	}
	if c.InputRetries <= 0 {
		c.InputRetries = def.InputRetries
	}
	if c.WarmupRetries <= 0 {
		c.WarmupRetries = def.WarmupRetries
	}
	if c.MaxNeutralReplies < 0 {
		c.MaxNeutralReplies = 0
	} else if c.MaxNeutralReplies == 0 {
		c.MaxNeutralReplies = def.MaxNeutralReplies
	}
	return c
}
