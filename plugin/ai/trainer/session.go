package trainer

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	trainererrors "github.com/hrygo/rehearse/internal/errors"
	"github.com/hrygo/rehearse/internal/observability"
	"github.com/hrygo/rehearse/plugin/ai/input"
	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/review"
	"github.com/hrygo/rehearse/plugin/ai/session"
)

const warmupThanks = "Thank you for sharing. Let's try a few memory questions together."

// Session is one run of the state machine. It is owned by the caller and
// can be run once.
type Session struct {
	t         *Trainer
	cfg       Config
	sc        *observability.SessionContext
	collector *input.Collector

	phase   atomic.Int32
	started atomic.Bool

	params    retention.Params
	start     time.Time
	endReason string
	result    *Result
}

// NewSession prepares a session. Zero config values take defaults.
func (t *Trainer) NewSession(cfg Config) *Session {
	sc := observability.NewSessionContext(t.logger, t.facts.PatientID())
	s := &Session{
		t:         t,
		cfg:       cfg.normalize(),
		sc:        sc,
		collector: input.NewCollector(t.channel),
		result: &Result{
			SessionID: sc.SessionID,
			PatientID: sc.PatientID,
		},
	}
	s.phase.Store(int32(PhaseInit))
	return s
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.sc.SessionID
}

// Phase returns the current phase. Safe for concurrent use.
func (s *Session) Phase() Phase {
	return Phase(s.phase.Load())
}

// Run drives the session to Finalized.
func (s *Session) Run(ctx context.Context) (*Result, error) {
	if !s.started.CompareAndSwap(false, true) {
		return nil, trainererrors.InvalidArgument("session already run")
	}
	ctx = observability.WithSessionContext(ctx, s.sc)
	s.start = s.now()
	s.result.Start = s.start

	facts, err := s.init(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if len(facts) == 0 {
		s.endReason = EndNoFacts
	} else if s.warmup(ctx) {
		if err := s.questioning(ctx, facts); err != nil {
			return s.fail(ctx, err)
		}
	}
	if err := s.summary(ctx); err != nil {
		return s.fail(ctx, err)
	}
	if err := s.finalize(ctx); err != nil {
		return s.fail(ctx, err)
	}
	return s.result, nil
}

func (s *Session) init(ctx context.Context) ([]*review.Fact, error) {
	s.setPhase(PhaseInit)

	tier := s.cfg.Difficulty
	if tier == "" {
		next, err := s.t.retention.NextDifficulty(ctx)
		if err != nil {
			s.sc.Warn("difficulty lookup failed, using easy", slog.String("error", err.Error()))
			next = retention.Easy
		}
		tier = next
	}
	s.result.Difficulty = tier
	s.params = retention.TierParams(tier)

	k := s.cfg.FactBatchSize
	if k <= 0 {
		k = s.params.BatchSize
	}
	facts, err := s.t.facts.Select(ctx, k)
	if err != nil {
		return nil, sessionError(PhaseInit, "select facts", err)
	}
	s.result.Facts = make([]FactResult, 0, len(facts))
	s.sc.Info("session initialized",
		slog.String("difficulty", string(tier)),
		slog.Int("requested", k),
		slog.Int("selected", len(facts)))
	return facts, nil
}

// warmup runs the free-form opening exchange. It returns false when the
// session should skip straight to Summary.
func (s *Session) warmup(ctx context.Context) bool {
	if s.cfg.SkipWarmup {
		return true
	}
	s.setPhase(PhaseWarmup)

	greeting, err := s.t.phraser.Greeting(ctx, s.cfg.PatientName)
	if err != nil || greeting == "" {
		if err != nil {
			s.sc.Warn("greeting phraser failed", slog.String("error", err.Error()))
		}
		greeting = defaultGreeting(s.cfg.PatientName)
	}
	s.say(ctx, greeting)

	window, ok := s.window(s.cfg.WarmupDeadline)
	if !ok {
		s.endReason = EndSessionDeadline
		return false
	}
	text, err := s.collector.Collect(ctx, input.Request{Deadline: window, MaxRetries: s.cfg.WarmupRetries})
	if err != nil {
		switch {
		case errors.Is(err, input.ErrClosed):
			s.endReason = EndInputClosed
		case ctx.Err() != nil:
			s.endReason = EndCancelled
		default:
			s.endReason = EndWarmupFailed
		}
		s.sc.Warn("warm-up ended without a reply",
			slog.String("end_reason", s.endReason),
			slog.String("error", err.Error()))
		return false
	}
	s.hear(text)
	s.say(ctx, warmupThanks)
	return true
}

func (s *Session) questioning(ctx context.Context, facts []*review.Fact) error {
	s.setPhase(PhaseQuestioning)

	for _, fact := range facts {
		if s.remaining() <= 0 {
			s.endReason = EndSessionDeadline
			break
		}
		fr, stop := s.askFact(ctx, fact)
		if err := s.recordFact(ctx, fact, &fr); err != nil {
			s.result.Facts = append(s.result.Facts, fr)
			return err
		}
		s.result.Facts = append(s.result.Facts, fr)
		s.sc.Info("fact finished",
			slog.String(observability.LogFieldFactID, fact.ID),
			slog.String(observability.LogFieldOutcome, fr.Outcome.String()),
			slog.Int("attempts", fr.Attempts),
			slog.Int("hints", fr.HintsShown))
		if stop != "" {
			s.endReason = stop
			break
		}
	}
	if s.endReason == EndSessionDeadline {
		terr := trainererrors.SessionDeadlineExceeded("session time cap reached")
		s.sc.Info("ending session early",
			slog.String(observability.LogFieldErrorCode, string(terr.Code)),
			slog.Int("asked", len(s.result.Facts)),
			slog.Int("selected", len(facts)))
	}
	return nil
}

// recordFact applies the outcome to the fact store and retention tracker.
// An unknown fact is fatal; any other failure degrades the fact to Incorrect.
func (s *Session) recordFact(ctx context.Context, fact *review.Fact, fr *FactResult) error {
	ctx = context.WithoutCancel(ctx)
	now := s.now()

	if _, err := s.t.facts.RecordOutcome(ctx, fact.ID, fr.Correct(), now); err != nil {
		if errors.Is(err, review.ErrFactNotFound) {
			return &SessionError{
				Phase: PhaseQuestioning,
				Cause: trainererrors.Wrap(err, trainererrors.ErrCodeFactNotFound, "record outcome").
					WithContext("fact_id", fact.ID),
			}
		}
		s.degrade(fr, "record outcome failed", err)
	}
	if _, err := s.t.retention.Update(ctx, fact.ID, fr.Correct(), fact.Topic, now); err != nil {
		s.degrade(fr, "retention update failed", err)
	}
	return nil
}

func (s *Session) degrade(fr *FactResult, msg string, err error) {
	s.sc.Warn(msg,
		slog.String(observability.LogFieldFactID, fr.FactID),
		slog.String("error", err.Error()))
	if fr.Outcome == OutcomeCorrect {
		fr.Outcome = OutcomeIncorrect
	}
	fr.Err = err.Error()
}

func (s *Session) summary(ctx context.Context) error {
	s.setPhase(PhaseSummary)
	if s.endReason == "" {
		s.endReason = EndCompleted
	}

	r := s.result
	r.tally()
	r.EndReason = s.endReason
	r.Complete = true

	text, err := s.t.phraser.Summary(ctx, r.Correct, r.Total)
	if err != nil || text == "" {
		if err != nil {
			s.sc.Warn("summary phraser failed", slog.String("error", err.Error()))
		}
		text = defaultSummary(r.Correct, r.Total)
	}
	s.say(ctx, text)
	r.End = s.now()

	// A session that asked nothing is not scored.
	if r.Total == 0 {
		return nil
	}
	if err := s.t.retention.RecordSession(context.WithoutCancel(ctx), r.Record()); err != nil {
		return sessionError(PhaseSummary, "record session", err)
	}
	return nil
}

func (s *Session) finalize(ctx context.Context) error {
	s.setPhase(PhaseFinalized)
	if s.t.logs != nil {
		if err := s.t.logs.SaveLog(context.WithoutCancel(ctx), s.result.Log()); err != nil {
			return sessionError(PhaseFinalized, "save session log", err)
		}
	}
	s.sc.Info("session finalized",
		slog.Int("correct", s.result.Correct),
		slog.Int("total", s.result.Total),
		slog.Float64("score", s.result.Score()),
		slog.String("end_reason", s.result.EndReason),
		slog.Int64(observability.LogFieldDuration, s.result.Duration().Milliseconds()))
	return nil
}

// fail flags the partial result incomplete and stores its log on a best-effort basis.
func (s *Session) fail(ctx context.Context, err error) (*Result, error) {
	r := s.result
	r.tally()
	r.Complete = false
	r.EndReason = EndFailed
	if r.End.IsZero() {
		r.End = s.now()
	}
	s.sc.Error("session failed", err,
		slog.String(observability.LogFieldErrorCode,
			string(trainererrors.GetCodeFromError(err, trainererrors.ErrCodeSessionFailed))))

	s.setPhase(PhaseFinalized)
	if s.t.logs != nil {
		if logErr := s.t.logs.SaveLog(context.WithoutCancel(ctx), r.Log()); logErr != nil {
			s.sc.Warn("failed to save partial session log", slog.String("error", logErr.Error()))
		}
	}
	return r, err
}

func (s *Session) setPhase(p Phase) {
	s.phase.Store(int32(p))
	s.sc.SetPhase(p.String())
	s.sc.Debug("phase entered")
}

func (s *Session) now() time.Time {
	return s.t.clock.Now()
}

// remaining returns the unused session budget.
func (s *Session) remaining() time.Duration {
	return s.cfg.SessionDeadline - s.now().Sub(s.start)
}

// window caps a read window at the remaining session budget.
func (s *Session) window(d time.Duration) (time.Duration, bool) {
	rem := s.remaining()
	if rem <= 0 {
		return 0, false
	}
	return min(d, rem), true
}

// say appends an assistant turn and shows it when the channel can prompt.
func (s *Session) say(ctx context.Context, text string) {
	s.result.Transcript = append(s.result.Transcript, session.Turn{
		Role:      session.RoleAssistant,
		Content:   text,
		Timestamp: s.now(),
	})
	if p, ok := s.t.channel.(input.Prompter); ok {
		if err := p.Prompt(ctx, text); err != nil {
			s.sc.Warn("failed to show prompt", slog.String("error", err.Error()))
		}
	}
}

func (s *Session) hear(text string) {
	s.result.Transcript = append(s.result.Transcript, session.Turn{
		Role:      session.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})
}

func (s *Session) recordAttempt(ctx context.Context, outcome Outcome, latency time.Duration) {
	if s.t.metrics != nil {
		s.t.metrics.RecordAttempt(ctx, outcome.String(), latency)
	}
}

func (s *Session) recordJudge(ctx context.Context, name string, latency time.Duration, ok bool) {
	if s.t.metrics != nil {
		s.t.metrics.RecordJudgeCall(ctx, name, latency, ok)
	}
}
