package retention

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/rehearse/store"
)

// Repository persists retention records and scored sessions.
type Repository interface {
	// GetRecord returns nil when the patient has no record for the key.
	GetRecord(ctx context.Context, patientID, topicKey string) (*Record, error)
	SaveRecord(ctx context.Context, record *Record) error
	// ListRecords returns records ordered by retention rate ascending.
	ListRecords(ctx context.Context, patientID string) ([]*Record, error)
	SaveSession(ctx context.Context, session *SessionRecord) error
	// ListSessions returns up to limit sessions, most recent first. limit <= 0 means all.
	ListSessions(ctx context.Context, patientID string, limit int) ([]*SessionRecord, error)
}

// MemoryRepository keeps records in process memory.
type MemoryRepository struct {
	mu       sync.RWMutex
	records  map[string]*Record
	sessions []*SessionRecord
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{records: make(map[string]*Record)}
}

func recordKey(patientID, topicKey string) string {
	return patientID + "\x00" + topicKey
}

func (r *MemoryRepository) GetRecord(_ context.Context, patientID, topicKey string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[recordKey(patientID, topicKey)]
	if !ok {
		return nil, nil
	}
	c := *rec
	return &c, nil
}

func (r *MemoryRepository) SaveRecord(_ context.Context, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *record
	r.records[recordKey(record.PatientID, record.TopicKey)] = &c
	return nil
}

func (r *MemoryRepository) ListRecords(_ context.Context, patientID string) ([]*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*Record, 0)
	for _, rec := range r.records {
		if rec.PatientID == patientID {
			c := *rec
			list = append(list, &c)
		}
	}
	sortByRetention(list)
	return list, nil
}

func (r *MemoryRepository) SaveSession(_ context.Context, session *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *session
	r.sessions = append(r.sessions, &c)
	return nil
}

func (r *MemoryRepository) ListSessions(_ context.Context, patientID string, limit int) ([]*SessionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*SessionRecord, 0)
	for i := len(r.sessions) - 1; i >= 0; i-- {
		if r.sessions[i].PatientID != patientID {
			continue
		}
		c := *r.sessions[i]
		list = append(list, &c)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StartedAt.After(list[j].StartedAt)
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func sortByRetention(list []*Record) {
	sort.SliceStable(list, func(i, j int) bool {
		ri, rj := list[i].RetentionRate(), list[j].RetentionRate()
		if ri != rj {
			return ri < rj
		}
		return list[i].TopicKey < list[j].TopicKey
	})
}

// StoreRepository persists records through the store drivers.
type StoreRepository struct {
	store *store.Store
}

// NewStoreRepository creates a repository backed by the given store.
func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) GetRecord(ctx context.Context, patientID, topicKey string) (*Record, error) {
	list, err := r.store.ListRetentionRecords(ctx, &store.FindRetentionRecord{
		PatientID: &patientID,
		TopicKey:  &topicKey,
	})
	if err != nil {
		return nil, fmt.Errorf("get retention record: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return convertRecordFromStore(list[0]), nil
}

func (r *StoreRepository) SaveRecord(ctx context.Context, record *Record) error {
	_, err := r.store.UpsertRetentionRecord(ctx, &store.RetentionRecord{
		PatientID:    record.PatientID,
		TopicKey:     record.TopicKey,
		FactID:       record.FactID,
		TimesAsked:   int32(record.TimesAsked),
		TimesCorrect: int32(record.TimesCorrect),
		FirstAskedTs: record.FirstAskedAt.Unix(),
		LastAskedTs:  record.LastAskedAt.Unix(),
	})
	if err != nil {
		return fmt.Errorf("save retention record: %w", err)
	}
	return nil
}

func (r *StoreRepository) ListRecords(ctx context.Context, patientID string) ([]*Record, error) {
	list, err := r.store.ListRetentionRecords(ctx, &store.FindRetentionRecord{PatientID: &patientID})
	if err != nil {
		return nil, fmt.Errorf("list retention records: %w", err)
	}
	records := make([]*Record, 0, len(list))
	for _, rec := range list {
		records = append(records, convertRecordFromStore(rec))
	}
	sortByRetention(records)
	return records, nil
}

func (r *StoreRepository) SaveSession(ctx context.Context, session *SessionRecord) error {
	_, err := r.store.CreateTrainingSession(ctx, &store.TrainingSession{
		ID:              session.ID,
		PatientID:       session.PatientID,
		StartedTs:       session.StartedAt.Unix(),
		EndedTs:         session.EndedAt.Unix(),
		Total:           int32(session.Total),
		Correct:         int32(session.Correct),
		HintsUsed:       int32(session.HintsUsed),
		ScorePercentage: session.Score,
		Difficulty:      string(session.Difficulty),
		DurationSeconds: int64(session.Duration / time.Second),
		Complete:        session.Complete,
		EndReason:       session.EndReason,
	})
	if err != nil {
		return fmt.Errorf("save training session: %w", err)
	}
	return nil
}

func (r *StoreRepository) ListSessions(ctx context.Context, patientID string, limit int) ([]*SessionRecord, error) {
	list, err := r.store.ListTrainingSessions(ctx, &store.FindTrainingSession{
		PatientID: &patientID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list training sessions: %w", err)
	}
	sessions := make([]*SessionRecord, 0, len(list))
	for _, s := range list {
		sessions = append(sessions, &SessionRecord{
			ID:         s.ID,
			PatientID:  s.PatientID,
			StartedAt:  time.Unix(s.StartedTs, 0),
			EndedAt:    time.Unix(s.EndedTs, 0),
			Total:      int(s.Total),
			Correct:    int(s.Correct),
			HintsUsed:  int(s.HintsUsed),
			Score:      s.ScorePercentage,
			Difficulty: ParseTier(s.Difficulty),
			Duration:   time.Duration(s.DurationSeconds) * time.Second,
			Complete:   s.Complete,
			EndReason:  s.EndReason,
		})
	}
	return sessions, nil
}

func convertRecordFromStore(r *store.RetentionRecord) *Record {
	return &Record{
		PatientID:    r.PatientID,
		TopicKey:     r.TopicKey,
		FactID:       r.FactID,
		TimesAsked:   int(r.TimesAsked),
		TimesCorrect: int(r.TimesCorrect),
		FirstAskedAt: time.Unix(r.FirstAskedTs, 0),
		LastAskedAt:  time.Unix(r.LastAskedTs, 0),
	}
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*StoreRepository)(nil)
)
