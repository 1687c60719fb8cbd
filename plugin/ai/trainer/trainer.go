// Package trainer runs adaptive memory-recall sessions.
//
// A session walks Init → Warmup → Questioning → Summary → Finalized. Each
// selected fact gets up to MaxAttempts bounded reads; misses climb the fact's
// hint ladder and an exhausted fact ends with its answer revealed. Outcomes
// feed the fact store and the retention tracker, which picks the difficulty
// tier of the next session.
package trainer

import (
	"context"
	"log/slog"
	"time"

	trainererrors "github.com/hrygo/rehearse/internal/errors"
	"github.com/hrygo/rehearse/plugin/ai/input"
	"github.com/hrygo/rehearse/plugin/ai/judge"
	"github.com/hrygo/rehearse/plugin/ai/metrics"
	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/review"
	"github.com/hrygo/rehearse/plugin/ai/session"
)

// FactStore is the subset of review.Service a session uses.
type FactStore interface {
	PatientID() string
	Select(ctx context.Context, k int) ([]*review.Fact, error)
	RecordOutcome(ctx context.Context, id string, correct bool, when time.Time) (*review.Fact, error)
}

// RetentionTracker is the subset of retention.Tracker a session uses.
type RetentionTracker interface {
	Update(ctx context.Context, factID string, correct bool, topic string, when time.Time) (*retention.Record, error)
	RecordSession(ctx context.Context, s *retention.SessionRecord) error
	NextDifficulty(ctx context.Context) (retention.Tier, error)
}

// Deps are the collaborators of a Trainer. Facts, Retention and Input are required.
type Deps struct {
	Facts     FactStore
	Retention RetentionTracker
	Input     input.Channel

	// Judge defaults to judge.New().
	Judge *judge.Judge
	// Semantic is consulted on deterministic misses when set.
	Semantic judge.SemanticJudge
	// Phraser defaults to fixed text.
	Phraser Phraser
	Metrics metrics.MetricsService
	// Logs persists the transcript at Finalized when set.
	Logs   session.LogService
	Clock  Clock
	Logger *slog.Logger
}

// Trainer creates sessions over a fixed set of collaborators.
type Trainer struct {
	facts     FactStore
	retention RetentionTracker
	channel   input.Channel
	judge     *judge.Judge
	semantic  judge.SemanticJudge
	phraser   Phraser
	metrics   metrics.MetricsService
	logs      session.LogService
	clock     Clock
	logger    *slog.Logger
}

// New validates deps and creates a Trainer.
func New(deps Deps) (*Trainer, error) {
	if deps.Facts == nil || deps.Retention == nil || deps.Input == nil {
		return nil, trainererrors.InvalidArgument("facts, retention and input are required")
	}
	t := &Trainer{
		facts:     deps.Facts,
		retention: deps.Retention,
		channel:   deps.Input,
		judge:     deps.Judge,
		semantic:  deps.Semantic,
		phraser:   deps.Phraser,
		metrics:   deps.Metrics,
		logs:      deps.Logs,
		clock:     deps.Clock,
		logger:    deps.Logger,
	}
	if t.judge == nil {
		t.judge = judge.New()
	}
	if t.phraser == nil {
		t.phraser = fixedPhraser{}
	}
	if t.clock == nil {
		t.clock = SystemClock()
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	return t, nil
}

// RunSession runs one complete session with cfg and returns its result.
// On a fatal failure the partial result is returned with a *SessionError.
func (t *Trainer) RunSession(ctx context.Context, cfg Config) (*Result, error) {
	return t.NewSession(cfg).Run(ctx)
}
