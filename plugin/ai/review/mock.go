package review

import (
	"context"
	"sync"
)

// MockRepository wraps a MemoryRepository and injects failures for testing.
type MockRepository struct {
	*MemoryRepository

	mu        sync.Mutex
	SelectErr error
	GetErr    error
	SaveErr   error
	// SaveErrFor fails Save only for the listed fact ids.
	SaveErrFor map[string]error
	SaveCalls  int
}

// NewMockRepository creates a new MockRepository.
func NewMockRepository() *MockRepository {
	return &MockRepository{MemoryRepository: NewMemoryRepository()}
}

func (m *MockRepository) SelectLeastRecent(ctx context.Context, patientID string, k int) ([]*Fact, error) {
	m.mu.Lock()
	err := m.SelectErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.MemoryRepository.SelectLeastRecent(ctx, patientID, k)
}

func (m *MockRepository) Get(ctx context.Context, id string) (*Fact, error) {
	m.mu.Lock()
	err := m.GetErr
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.MemoryRepository.Get(ctx, id)
}

func (m *MockRepository) Save(ctx context.Context, fact *Fact) error {
	m.mu.Lock()
	m.SaveCalls++
	err := m.SaveErr
	if e, ok := m.SaveErrFor[fact.ID]; ok {
		err = e
	}
	m.mu.Unlock()
	if err != nil {
		return err
	}
	return m.MemoryRepository.Save(ctx, fact)
}

var _ Repository = (*MockRepository)(nil)
