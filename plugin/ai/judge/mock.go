package judge

import (
	"context"
	"sync"
)

// MockSemanticJudge is a mock implementation of SemanticJudge for testing.
type MockSemanticJudge struct {
	mu sync.Mutex

	// Verdicts maps an answer to the verdict returned for it.
	Verdicts map[string]*SemanticVerdict
	// Err, when set, is returned by every call.
	Err   error
	Calls []string
}

// NewMockSemanticJudge creates a new MockSemanticJudge.
func NewMockSemanticJudge() *MockSemanticJudge {
	return &MockSemanticJudge{Verdicts: make(map[string]*SemanticVerdict)}
}

// Judge returns the configured verdict, or an incorrect one.
func (m *MockSemanticJudge) Judge(_ context.Context, _, _, answer string) (*SemanticVerdict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, answer)
	if m.Err != nil {
		return nil, m.Err
	}
	if v, ok := m.Verdicts[answer]; ok {
		return v, nil
	}
	return &SemanticVerdict{Correct: false, Confidence: 1}, nil
}

// CallCount returns how many times Judge was called.
func (m *MockSemanticJudge) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

var _ SemanticJudge = (*MockSemanticJudge)(nil)
