package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/hrygo/rehearse/internal/observability"
)

// Service is the fact store of one patient.
type Service struct {
	repo      Repository
	patientID string
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock used to stamp new facts.
func WithNow(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a fact store for the patient.
func NewService(repo Repository, patientID string, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		patientID: patientID,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PatientID returns the patient whose facts this service manages.
func (s *Service) PatientID() string {
	return s.patientID
}

// Select returns the k least recently practiced facts, oldest first.
func (s *Service) Select(ctx context.Context, k int) ([]*Fact, error) {
	if k <= 0 {
		return []*Fact{}, nil
	}
	facts, err := s.repo.SelectLeastRecent(ctx, s.patientID, k)
	if err != nil {
		return nil, fmt.Errorf("select facts: %w", err)
	}
	return facts, nil
}

// Get returns a fact of this patient by id.
func (s *Service) Get(ctx context.Context, id string) (*Fact, error) {
	fact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if fact.PatientID != s.patientID {
		return nil, fmt.Errorf("%w: %s", ErrFactNotFound, id)
	}
	return fact, nil
}

// Add appends a new fact, assigning its id and creation time when unset.
func (s *Service) Add(ctx context.Context, fact *Fact) (*Fact, error) {
	fact.Prompt = strings.TrimSpace(fact.Prompt)
	fact.Answer = strings.TrimSpace(fact.Answer)
	if fact.Prompt == "" || fact.Answer == "" {
		return nil, errors.New("fact prompt and answer are required")
	}
	if fact.ID == "" {
		fact.ID = shortuuid.New()
	}
	if fact.CreatedAt.IsZero() {
		fact.CreatedAt = s.now()
	}
	fact.PatientID = s.patientID
	fact.PracticeCount = 0
	fact.SuccessRate = 0
	fact.LastPracticedAt = time.Time{}

	created, err := s.repo.Create(ctx, fact)
	if err != nil {
		return nil, fmt.Errorf("add fact: %w", err)
	}
	return created, nil
}

// RecordOutcome applies one terminal attempt outcome to the fact's statistics.
// Returns ErrFactNotFound when the fact is unknown.
func (s *Service) RecordOutcome(ctx context.Context, id string, correct bool, when time.Time) (*Fact, error) {
	fact, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyOutcome(fact, correct, when)

	if err := s.repo.Save(ctx, fact); err != nil {
		return nil, err
	}
	observability.LoggerFrom(ctx, slog.String(observability.LogFieldFactID, id)).Debug("fact outcome recorded",
		"correct", correct,
		"practice_count", fact.PracticeCount,
		"success_rate", fact.SuccessRate,
	)
	return fact, nil
}

// applyOutcome updates the running success rate and moves last practice forward.
func applyOutcome(fact *Fact, correct bool, when time.Time) {
	score := 0.0
	if correct {
		score = 1.0
	}
	fact.PracticeCount++
	n := float64(fact.PracticeCount)
	fact.SuccessRate = (fact.SuccessRate*(n-1) + score) / n
	if when.After(fact.LastPracticedAt) {
		fact.LastPracticedAt = when
	}
}

// GetStats returns statistics about the patient's practice progress.
func (s *Service) GetStats(ctx context.Context) (*FactStats, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	facts, err := s.repo.List(ctx, s.patientID)
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}

	stats := &FactStats{TotalFacts: len(facts)}
	practiceDates := make(map[string]bool)
	practiced := 0
	accuracySum := 0.0

	for _, fact := range facts {
		if fact.PracticeCount == 0 {
			stats.NewFacts++
			continue
		}
		practiced++
		accuracySum += fact.SuccessRate
		stats.TotalPractices += fact.PracticeCount

		if !fact.LastPracticedAt.Before(today) {
			stats.PracticedToday++
		}
		if fact.PracticeCount >= MasteryMinPractices && fact.SuccessRate >= MasterySuccessRate {
			stats.MasteredFacts++
		}
		practiceDates[fact.LastPracticedAt.In(now.Location()).Format("2006-01-02")] = true
	}

	stats.StreakDays = calculateStreak(practiceDates, today)
	if practiced > 0 {
		stats.AverageAccuracy = int(accuracySum / float64(practiced) * 100)
	}

	return stats, nil
}

// calculateStreak counts consecutive days with practice ending today or yesterday.
func calculateStreak(practiceDates map[string]bool, today time.Time) int {
	streak := 0
	checkDate := today

	// Allow starting from today or yesterday
	if !practiceDates[checkDate.Format("2006-01-02")] {
		checkDate = checkDate.AddDate(0, 0, -1)
		if !practiceDates[checkDate.Format("2006-01-02")] {
			return 0
		}
	}

	for practiceDates[checkDate.Format("2006-01-02")] {
		streak++
		checkDate = checkDate.AddDate(0, 0, -1)
	}

	return streak
}
