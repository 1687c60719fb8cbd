package metrics

import (
	"context"
	"sync"
	"time"
)

// AttemptRecord is one RecordAttempt call seen by the mock.
type AttemptRecord struct {
	Outcome string
	Latency time.Duration
}

// JudgeCallRecord is one RecordJudgeCall call seen by the mock.
type JudgeCallRecord struct {
	Judge   string
	Latency time.Duration
	Success bool
}

// MockMetricsService records calls for assertions.
type MockMetricsService struct {
	mu         sync.Mutex
	attempts   []AttemptRecord
	judgeCalls []JudgeCallRecord
}

// NewMockMetricsService creates a new MockMetricsService.
func NewMockMetricsService() *MockMetricsService {
	return &MockMetricsService{}
}

func (m *MockMetricsService) RecordAttempt(_ context.Context, outcome string, latency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, AttemptRecord{Outcome: outcome, Latency: latency})
}

func (m *MockMetricsService) RecordJudgeCall(_ context.Context, judge string, latency time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.judgeCalls = append(m.judgeCalls, JudgeCallRecord{Judge: judge, Latency: latency, Success: success})
}

// GetStats aggregates every recorded call regardless of range.
func (m *MockMetricsService) GetStats(_ context.Context, _ TimeRange) (*TrainingMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &TrainingMetrics{
		OutcomeCounts: make(map[string]int64),
		JudgeStats:    make(map[string]*JudgeStat),
	}
	for _, a := range m.attempts {
		stats.AttemptCount++
		stats.OutcomeCounts[a.Outcome]++
	}
	var success int64
	for _, c := range m.judgeCalls {
		stats.JudgeCalls++
		if c.Success {
			success++
		}
	}
	if stats.JudgeCalls > 0 {
		stats.JudgeSuccessRate = float32(success) / float32(stats.JudgeCalls)
	}
	return stats, nil
}

// Attempts returns the recorded attempts in order.
func (m *MockMetricsService) Attempts() []AttemptRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AttemptRecord(nil), m.attempts...)
}

// JudgeCalls returns the recorded judge calls in order.
func (m *MockMetricsService) JudgeCalls() []JudgeCallRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]JudgeCallRecord(nil), m.judgeCalls...)
}

var _ MetricsService = (*MockMetricsService)(nil)
