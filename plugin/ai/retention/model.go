// Package retention tracks how well facts are retained across sessions and
// derives the difficulty tier of the next session from recent scores.
package retention

import (
	"time"
)

// Retention thresholds used to classify records.
const (
	WeakBelow     = 0.5
	StrongAtLeast = 0.8
)

// Record is the attempt history of one topic, or of one fact when it has no topic.
type Record struct {
	PatientID    string    `json:"patient_id"`
	TopicKey     string    `json:"topic_key"`
	FactID       string    `json:"fact_id"`
	TimesAsked   int       `json:"times_asked"`
	TimesCorrect int       `json:"times_correct"`
	FirstAskedAt time.Time `json:"first_asked_at"`
	LastAskedAt  time.Time `json:"last_asked_at"`
}

// RetentionRate returns the fraction of attempts answered correctly.
func (r *Record) RetentionRate() float64 {
	if r.TimesAsked <= 0 {
		return 0
	}
	return float64(r.TimesCorrect) / float64(r.TimesAsked)
}

// Classification partitions records for reporting. Records between the two
// thresholds appear in neither list.
type Classification struct {
	Weak   []*Record `json:"weak"`
	Strong []*Record `json:"strong"`
}

// SessionRecord is the scored summary of one finished session.
type SessionRecord struct {
	ID         string        `json:"id"`
	PatientID  string        `json:"patient_id"`
	StartedAt  time.Time     `json:"started_at"`
	EndedAt    time.Time     `json:"ended_at"`
	Total      int           `json:"total"`
	Correct    int           `json:"correct"`
	HintsUsed  int           `json:"hints_used"`
	Score      float64       `json:"score_percentage"`
	Difficulty Tier          `json:"difficulty"`
	Duration   time.Duration `json:"duration"`
	Complete   bool          `json:"complete"`
	EndReason  string        `json:"end_reason"`
}

// Trend describes the direction of scores over a reporting window.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// Report is a patient's progress over a window of days.
type Report struct {
	TotalSessions   int       `json:"total_sessions"`
	AverageScore    float64   `json:"average_score"`
	FirstScore      float64   `json:"first_score"`
	LatestScore     float64   `json:"latest_score"`
	Improvement     float64   `json:"improvement"`
	Trend           Trend     `json:"trend"`
	ScoreHistory    []float64 `json:"score_history"`
	NextDifficulty  Tier      `json:"next_difficulty"`
	Weak            []*Record `json:"weak"`
	Strong          []*Record `json:"strong"`
	Recommendations []string  `json:"recommendations"`
}
