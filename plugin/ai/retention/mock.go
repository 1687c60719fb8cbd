package retention

import (
	"context"
	"sync"
)

// MockRepository wraps a MemoryRepository and injects failures for testing.
type MockRepository struct {
	*MemoryRepository

	mu             sync.Mutex
	GetErr         error
	SaveRecordErr  error
	SaveSessionErr error
	ListErr        error
}

// NewMockRepository creates a new MockRepository.
func NewMockRepository() *MockRepository {
	return &MockRepository{MemoryRepository: NewMemoryRepository()}
}

func (m *MockRepository) err(get func() error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return get()
}

func (m *MockRepository) GetRecord(ctx context.Context, patientID, topicKey string) (*Record, error) {
	if err := m.err(func() error { return m.GetErr }); err != nil {
		return nil, err
	}
	return m.MemoryRepository.GetRecord(ctx, patientID, topicKey)
}

func (m *MockRepository) SaveRecord(ctx context.Context, record *Record) error {
	if err := m.err(func() error { return m.SaveRecordErr }); err != nil {
		return err
	}
	return m.MemoryRepository.SaveRecord(ctx, record)
}

func (m *MockRepository) SaveSession(ctx context.Context, session *SessionRecord) error {
	if err := m.err(func() error { return m.SaveSessionErr }); err != nil {
		return err
	}
	return m.MemoryRepository.SaveSession(ctx, session)
}

func (m *MockRepository) ListSessions(ctx context.Context, patientID string, limit int) ([]*SessionRecord, error) {
	if err := m.err(func() error { return m.ListErr }); err != nil {
		return nil, err
	}
	return m.MemoryRepository.ListSessions(ctx, patientID, limit)
}

var _ Repository = (*MockRepository)(nil)
