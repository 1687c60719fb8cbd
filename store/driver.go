package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)

	// Fact model related methods.
	CreateFact(ctx context.Context, create *Fact) (*Fact, error)
	ListFacts(ctx context.Context, find *FindFact) ([]*Fact, error)
	UpdateFact(ctx context.Context, update *UpdateFact) (*Fact, error)

	// RetentionRecord model related methods.
	UpsertRetentionRecord(ctx context.Context, upsert *RetentionRecord) (*RetentionRecord, error)
	ListRetentionRecords(ctx context.Context, find *FindRetentionRecord) ([]*RetentionRecord, error)

	// TrainingSession model related methods.
	CreateTrainingSession(ctx context.Context, create *TrainingSession) (*TrainingSession, error)
	ListTrainingSessions(ctx context.Context, find *FindTrainingSession) ([]*TrainingSession, error)

	// SessionLog model related methods.
	UpsertSessionLog(ctx context.Context, upsert *SessionLog) (*SessionLog, error)
	ListSessionLogs(ctx context.Context, find *FindSessionLog) ([]*SessionLog, error)
	DeleteSessionLogs(ctx context.Context, delete *DeleteSessionLog) (int64, error)
}
