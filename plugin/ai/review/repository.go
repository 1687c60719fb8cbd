package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hrygo/rehearse/store"
)

// Repository persists facts for a FactStore.
type Repository interface {
	// SelectLeastRecent returns up to k facts of the patient ordered by
	// last practice time ascending, ties broken by insertion order.
	SelectLeastRecent(ctx context.Context, patientID string, k int) ([]*Fact, error)
	// List returns every fact of the patient in insertion order.
	List(ctx context.Context, patientID string) ([]*Fact, error)
	// Get returns ErrFactNotFound when the id is unknown.
	Get(ctx context.Context, id string) (*Fact, error)
	// Create appends a new fact and assigns its sequence number.
	Create(ctx context.Context, fact *Fact) (*Fact, error)
	// Save overwrites an existing fact. Returns ErrFactNotFound when the id is unknown.
	Save(ctx context.Context, fact *Fact) error
}

// MemoryRepository keeps facts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	facts   map[string]*Fact
	nextSeq int64
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{facts: make(map[string]*Fact)}
}

func (r *MemoryRepository) SelectLeastRecent(_ context.Context, patientID string, k int) ([]*Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.listLocked(patientID)
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].LastPracticedAt.Equal(list[j].LastPracticedAt) {
			return list[i].LastPracticedAt.Before(list[j].LastPracticedAt)
		}
		return list[i].Seq < list[j].Seq
	})
	if k >= 0 && len(list) > k {
		list = list[:k]
	}
	return list, nil
}

func (r *MemoryRepository) List(_ context.Context, patientID string) ([]*Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(patientID), nil
}

func (r *MemoryRepository) listLocked(patientID string) []*Fact {
	list := make([]*Fact, 0, len(r.facts))
	for _, f := range r.facts {
		if f.PatientID == patientID {
			list = append(list, f.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Seq < list[j].Seq })
	return list
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*Fact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.facts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFactNotFound, id)
	}
	return f.Clone(), nil
}

func (r *MemoryRepository) Create(_ context.Context, fact *Fact) (*Fact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.facts[fact.ID]; exists {
		return nil, fmt.Errorf("fact already exists: %s", fact.ID)
	}
	r.nextSeq++
	fact.Seq = r.nextSeq
	r.facts[fact.ID] = fact.Clone()
	return fact, nil
}

func (r *MemoryRepository) Save(_ context.Context, fact *Fact) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.facts[fact.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFactNotFound, fact.ID)
	}
	saved := fact.Clone()
	saved.Seq = existing.Seq
	r.facts[fact.ID] = saved
	return nil
}

// StoreRepository persists facts through the store drivers.
// Timestamps are kept at second precision.
type StoreRepository struct {
	store *store.Store
}

// NewStoreRepository creates a repository backed by the given store.
func NewStoreRepository(s *store.Store) *StoreRepository {
	return &StoreRepository{store: s}
}

func (r *StoreRepository) SelectLeastRecent(ctx context.Context, patientID string, k int) ([]*Fact, error) {
	list, err := r.store.ListFacts(ctx, &store.FindFact{
		PatientID:        &patientID,
		LeastRecentFirst: true,
		Limit:            k,
	})
	if err != nil {
		return nil, fmt.Errorf("select least recent facts: %w", err)
	}
	return convertFactsFromStore(list), nil
}

func (r *StoreRepository) List(ctx context.Context, patientID string) ([]*Fact, error) {
	list, err := r.store.ListFacts(ctx, &store.FindFact{PatientID: &patientID})
	if err != nil {
		return nil, fmt.Errorf("list facts: %w", err)
	}
	return convertFactsFromStore(list), nil
}

func (r *StoreRepository) Get(ctx context.Context, id string) (*Fact, error) {
	f, err := r.store.GetFact(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get fact: %w", err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrFactNotFound, id)
	}
	return convertFactFromStore(f), nil
}

func (r *StoreRepository) Create(ctx context.Context, fact *Fact) (*Fact, error) {
	created, err := r.store.CreateFact(ctx, &store.Fact{
		ID:              fact.ID,
		PatientID:       fact.PatientID,
		Prompt:          fact.Prompt,
		Answer:          fact.Answer,
		Topic:           fact.Topic,
		Keywords:        fact.Keywords,
		Hints:           fact.Hints,
		PracticeCount:   int32(fact.PracticeCount),
		SuccessRate:     fact.SuccessRate,
		LastPracticedTs: unixOrZero(fact.LastPracticedAt),
		CreatedTs:       unixOrZero(fact.CreatedAt),
	})
	if err != nil {
		return nil, fmt.Errorf("create fact: %w", err)
	}
	fact.Seq = created.Seq
	return fact, nil
}

func (r *StoreRepository) Save(ctx context.Context, fact *Fact) error {
	count := int32(fact.PracticeCount)
	lastPracticed := unixOrZero(fact.LastPracticedAt)
	updated, err := r.store.UpdateFact(ctx, &store.UpdateFact{
		ID:              fact.ID,
		Prompt:          &fact.Prompt,
		Answer:          &fact.Answer,
		Topic:           &fact.Topic,
		Keywords:        &fact.Keywords,
		Hints:           &fact.Hints,
		PracticeCount:   &count,
		SuccessRate:     &fact.SuccessRate,
		LastPracticedTs: &lastPracticed,
	})
	if err != nil {
		return fmt.Errorf("save fact: %w", err)
	}
	if updated == nil {
		return fmt.Errorf("%w: %s", ErrFactNotFound, fact.ID)
	}
	return nil
}

func convertFactsFromStore(list []*store.Fact) []*Fact {
	facts := make([]*Fact, 0, len(list))
	for _, f := range list {
		facts = append(facts, convertFactFromStore(f))
	}
	return facts
}

func convertFactFromStore(f *store.Fact) *Fact {
	fact := &Fact{
		ID:            f.ID,
		PatientID:     f.PatientID,
		Seq:           f.Seq,
		Prompt:        f.Prompt,
		Answer:        f.Answer,
		Topic:         f.Topic,
		Keywords:      f.Keywords,
		Hints:         f.Hints,
		CreatedAt:     time.Unix(f.CreatedTs, 0),
		PracticeCount: int(f.PracticeCount),
		SuccessRate:   f.SuccessRate,
	}
	if f.LastPracticedTs > 0 {
		fact.LastPracticedAt = time.Unix(f.LastPracticedTs, 0)
	}
	return fact
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// IsNotFound reports whether err is a missing-fact error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFactNotFound)
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*StoreRepository)(nil)
)
