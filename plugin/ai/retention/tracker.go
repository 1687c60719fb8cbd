package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/rehearse/internal/observability"
)

// Tracker owns one patient's retention records and session history.
type Tracker struct {
	repo      Repository
	patientID string
	now       func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithNow overrides the clock used for report windows.
func WithNow(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates a tracker for the patient.
func NewTracker(repo Repository, patientID string, opts ...Option) *Tracker {
	t := &Tracker{
		repo:      repo,
		patientID: patientID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update folds one attempt outcome into the record keyed by topic, or by
// factID when topic is empty. The record is created on first sight.
func (t *Tracker) Update(ctx context.Context, factID string, correct bool, topic string, when time.Time) (*Record, error) {
	key := topic
	if key == "" {
		key = factID
	}

	rec, err := t.repo.GetRecord(ctx, t.patientID, key)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec = &Record{
			PatientID:    t.patientID,
			TopicKey:     key,
			FirstAskedAt: when,
		}
	}
	rec.FactID = factID
	rec.TimesAsked++
	if correct {
		rec.TimesCorrect++
	}
	rec.LastAskedAt = when

	if err := t.repo.SaveRecord(ctx, rec); err != nil {
		return nil, err
	}
	observability.LoggerFrom(ctx, slog.String(observability.LogFieldFactID, factID)).Debug("retention updated",
		"topic_key", key,
		"times_asked", rec.TimesAsked,
		"retention_rate", rec.RetentionRate(),
	)
	return rec, nil
}

// Get returns the record for a topic key, or nil when none exists.
func (t *Tracker) Get(ctx context.Context, topicKey string) (*Record, error) {
	return t.repo.GetRecord(ctx, t.patientID, topicKey)
}

// Classify splits the patient's records into weak and strong memories.
func (t *Tracker) Classify(ctx context.Context) (*Classification, error) {
	records, err := t.repo.ListRecords(ctx, t.patientID)
	if err != nil {
		return nil, fmt.Errorf("list retention records: %w", err)
	}
	return classify(records), nil
}

func classify(records []*Record) *Classification {
	c := &Classification{Weak: []*Record{}, Strong: []*Record{}}
	for _, rec := range records {
		rate := rec.RetentionRate()
		switch {
		case rate < WeakBelow:
			c.Weak = append(c.Weak, rec)
		case rate >= StrongAtLeast:
			c.Strong = append(c.Strong, rec)
		}
	}
	return c
}

// RecordSession stores a finished session, assigning its id when unset.
func (t *Tracker) RecordSession(ctx context.Context, s *SessionRecord) error {
	if s.ID == "" {
		s.ID = shortuuid.New()
	}
	s.PatientID = t.patientID
	return t.repo.SaveSession(ctx, s)
}

// RecentScores returns up to n session scores, oldest first.
func (t *Tracker) RecentScores(ctx context.Context, n int) ([]float64, error) {
	sessions, err := t.repo.ListSessions(ctx, t.patientID, n)
	if err != nil {
		return nil, fmt.Errorf("list training sessions: %w", err)
	}
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		scores[len(sessions)-1-i] = s.Score
	}
	return scores, nil
}

// NextDifficulty returns the tier for the next session.
func (t *Tracker) NextDifficulty(ctx context.Context) (Tier, error) {
	scores, err := t.RecentScores(ctx, ScoreWindow)
	if err != nil {
		return Easy, err
	}
	return DifficultyFor(scores), nil
}

// Report summarizes sessions started within the last days days.
// days <= 0 covers the whole history.
func (t *Tracker) Report(ctx context.Context, days int) (*Report, error) {
	sessions, err := t.repo.ListSessions(ctx, t.patientID, 0)
	if err != nil {
		return nil, fmt.Errorf("list training sessions: %w", err)
	}
	var since time.Time
	if days > 0 {
		since = t.now().AddDate(0, 0, -days)
	}

	// Oldest first.
	scores := make([]float64, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		if sessions[i].StartedAt.Before(since) {
			continue
		}
		scores = append(scores, sessions[i].Score)
	}

	records, err := t.repo.ListRecords(ctx, t.patientID)
	if err != nil {
		return nil, fmt.Errorf("list retention records: %w", err)
	}
	c := classify(records)

	report := &Report{
		TotalSessions:  len(scores),
		Trend:          TrendStable,
		ScoreHistory:   scores,
		NextDifficulty: DifficultyFor(lastN(scores, ScoreWindow)),
		Weak:           c.Weak,
		Strong:         c.Strong,
	}
	if len(scores) > 0 {
		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		report.AverageScore = sum / float64(len(scores))
		report.FirstScore = scores[0]
		report.LatestScore = scores[len(scores)-1]
	}
	if len(scores) > 1 {
		report.Improvement = report.LatestScore - report.FirstScore
		switch {
		case report.Improvement > 0:
			report.Trend = TrendImproving
		case report.Improvement < 0:
			report.Trend = TrendDeclining
		}
	}
	report.Recommendations = recommend(report)
	return report, nil
}

func lastN(scores []float64, n int) []float64 {
	if len(scores) > n {
		return scores[len(scores)-n:]
	}
	return scores
}

func recommend(r *Report) []string {
	if r.TotalSessions == 0 {
		return []string{"Complete more sessions to get personalized recommendations."}
	}
	var recs []string
	if len(r.Weak) > 0 {
		recs = append(recs, fmt.Sprintf("Revisit %d memories that are often missed, a few at a time.", len(r.Weak)))
	}
	switch r.Trend {
	case TrendDeclining:
		recs = append(recs, "Scores are dropping. Try shorter sessions at a calmer time of day.")
	case TrendImproving:
		recs = append(recs, "Scores are improving. Keep the current routine.")
	}
	if r.NextDifficulty == Hard {
		recs = append(recs, "Add new memories to keep sessions challenging.")
	}
	if len(recs) == 0 {
		recs = append(recs, "Keep practicing regularly to maintain progress.")
	}
	return recs
}
