package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MockCacheService is a map-backed CacheService with failure injection.
type MockCacheService struct {
	mu      sync.Mutex
	values  map[string][]byte
	SetErr  error
	InvErr  error
	GetHits int
	Sets    int
}

// NewMockCacheService creates an empty mock cache.
func NewMockCacheService() *MockCacheService {
	return &MockCacheService{values: make(map[string][]byte)}
}

func (m *MockCacheService) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if ok {
		m.GetHits++
	}
	return v, ok
}

func (m *MockCacheService) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Sets++
	m.values[key] = value
	return nil
}

func (m *MockCacheService) Invalidate(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InvErr != nil {
		return m.InvErr
	}
	prefix, wildcard := strings.CutSuffix(pattern, "*")
	for key := range m.values {
		if key == pattern || wildcard && strings.HasPrefix(key, prefix) {
			delete(m.values, key)
		}
	}
	return nil
}

// Has reports whether key is present.
func (m *MockCacheService) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.values[key]
	return ok
}

// Size returns the number of stored keys.
func (m *MockCacheService) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

var _ CacheService = (*MockCacheService)(nil)
