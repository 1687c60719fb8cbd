package store

import (
	"context"

	"github.com/hrygo/rehearse/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateFact(ctx context.Context, create *Fact) (*Fact, error) {
	return s.driver.CreateFact(ctx, create)
}

func (s *Store) ListFacts(ctx context.Context, find *FindFact) ([]*Fact, error) {
	return s.driver.ListFacts(ctx, find)
}

// GetFact returns the fact with the given id, or nil when it does not exist.
func (s *Store) GetFact(ctx context.Context, id string) (*Fact, error) {
	list, err := s.driver.ListFacts(ctx, &FindFact{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) UpdateFact(ctx context.Context, update *UpdateFact) (*Fact, error) {
	return s.driver.UpdateFact(ctx, update)
}

func (s *Store) UpsertRetentionRecord(ctx context.Context, upsert *RetentionRecord) (*RetentionRecord, error) {
	return s.driver.UpsertRetentionRecord(ctx, upsert)
}

func (s *Store) ListRetentionRecords(ctx context.Context, find *FindRetentionRecord) ([]*RetentionRecord, error) {
	return s.driver.ListRetentionRecords(ctx, find)
}

func (s *Store) CreateTrainingSession(ctx context.Context, create *TrainingSession) (*TrainingSession, error) {
	return s.driver.CreateTrainingSession(ctx, create)
}

func (s *Store) ListTrainingSessions(ctx context.Context, find *FindTrainingSession) ([]*TrainingSession, error) {
	return s.driver.ListTrainingSessions(ctx, find)
}

func (s *Store) UpsertSessionLog(ctx context.Context, upsert *SessionLog) (*SessionLog, error) {
	return s.driver.UpsertSessionLog(ctx, upsert)
}

func (s *Store) ListSessionLogs(ctx context.Context, find *FindSessionLog) ([]*SessionLog, error) {
	return s.driver.ListSessionLogs(ctx, find)
}

func (s *Store) DeleteSessionLogs(ctx context.Context, delete *DeleteSessionLog) (int64, error) {
	return s.driver.DeleteSessionLogs(ctx, delete)
}
