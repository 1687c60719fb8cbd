package session

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// MockLogService keeps logs in memory. Stored logs are deep-copied through JSON
// so callers cannot mutate them after SaveLog.
type MockLogService struct {
	mu   sync.Mutex
	logs map[string][]byte
	now  func() time.Time

	SaveErr     error
	CleanupErr  error
	SaveCalls   int
	CleanupDays []int
}

// NewMockLogService creates an empty mock.
func NewMockLogService() *MockLogService {
	return &MockLogService{logs: make(map[string][]byte), now: time.Now}
}

func (m *MockLogService) SaveLog(_ context.Context, log *SessionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	now := m.now().Unix()
	if log.CreatedAt == 0 {
		log.CreatedAt = now
	}
	log.UpdatedAt = now
	data, err := json.Marshal(log)
	if err != nil {
		return err
	}
	m.logs[log.SessionID] = data
	return nil
}

// Put stores a log as-is, keeping its timestamps.
func (m *MockLogService) Put(log *SessionLog) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, _ := json.Marshal(log)
	m.logs[log.SessionID] = data
}

func (m *MockLogService) LoadLog(_ context.Context, sessionID string) (*SessionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.logs[sessionID]
	if !ok {
		return nil, nil
	}
	var log SessionLog
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (m *MockLogService) ListLogs(ctx context.Context, patientID string, limit int) ([]LogSummary, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.logs))
	for id := range m.logs {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var summaries []LogSummary
	for _, id := range ids {
		log, err := m.LoadLog(ctx, id)
		if err != nil || log == nil || log.PatientID != patientID {
			continue
		}
		s := LogSummary{
			SessionID: log.SessionID,
			PatientID: log.PatientID,
			Correct:   log.Correct(),
			Total:     len(log.Results),
			UpdatedAt: log.UpdatedAt,
		}
		if n := len(log.Turns); n > 0 {
			s.LastMessage = log.Turns[n-1].Content
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UpdatedAt != summaries[j].UpdatedAt {
			return summaries[i].UpdatedAt > summaries[j].UpdatedAt
		}
		return summaries[i].SessionID < summaries[j].SessionID
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (m *MockLogService) CleanupExpired(_ context.Context, retentionDays int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CleanupDays = append(m.CleanupDays, retentionDays)
	if m.CleanupErr != nil {
		return 0, m.CleanupErr
	}
	cutoff := m.now().AddDate(0, 0, -retentionDays).Unix()
	var deleted int64
	for id, data := range m.logs {
		var log SessionLog
		if err := json.Unmarshal(data, &log); err == nil && log.CreatedAt < cutoff {
			delete(m.logs, id)
			deleted++
		}
	}
	return deleted, nil
}

// CleanupCalls returns how many cleanup passes ran.
func (m *MockLogService) CleanupCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CleanupDays)
}

var _ LogService = (*MockLogService)(nil)
