package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrygo/rehearse/plugin/ai/cache"
	"github.com/hrygo/rehearse/store"
)

const (
	cachePrefix = "log"
	cacheTTL    = 30 * time.Minute
)

// logStore implements LogService over the store with a read-through cache.
type logStore struct {
	store *store.Store
	cache cache.CacheService
	now   func() time.Time
}

// payload is the JSON body kept in the session_log table.
type payload struct {
	Turns     []Turn      `json:"turns"`
	Results   []ResultRow `json:"results"`
	Complete  bool        `json:"complete"`
	EndReason string      `json:"end_reason,omitempty"`
}

// NewLogService creates a log service. c may be nil.
func NewLogService(s *store.Store, c cache.CacheService) LogService {
	return &logStore{store: s, cache: c, now: time.Now}
}

func (s *logStore) SaveLog(ctx context.Context, log *SessionLog) error {
	if log.SessionID == "" {
		return fmt.Errorf("session log requires a session id")
	}
	now := s.now().Unix()
	if log.CreatedAt == 0 {
		log.CreatedAt = now
	}
	log.UpdatedAt = now

	data, err := json.Marshal(payload{
		Turns:     log.Turns,
		Results:   log.Results,
		Complete:  log.Complete,
		EndReason: log.EndReason,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal session log: %w", err)
	}

	if _, err := s.store.UpsertSessionLog(ctx, &store.SessionLog{
		SessionID: log.SessionID,
		PatientID: log.PatientID,
		Payload:   string(data),
		CreatedTs: log.CreatedAt,
		UpdatedTs: log.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("failed to save session log: %w", err)
	}

	s.updateCache(ctx, log)
	return nil
}

func (s *logStore) LoadLog(ctx context.Context, sessionID string) (*SessionLog, error) {
	if cached := s.loadFromCache(ctx, sessionID); cached != nil {
		return cached, nil
	}

	list, err := s.store.ListSessionLogs(ctx, &store.FindSessionLog{SessionID: &sessionID})
	if err != nil {
		return nil, fmt.Errorf("failed to load session log: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}

	log, err := convertSessionLogFromStore(list[0])
	if err != nil {
		return nil, err
	}
	s.updateCache(ctx, log)
	return log, nil
}

func (s *logStore) ListLogs(ctx context.Context, patientID string, limit int) ([]LogSummary, error) {
	list, err := s.store.ListSessionLogs(ctx, &store.FindSessionLog{PatientID: &patientID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list session logs: %w", err)
	}

	summaries := make([]LogSummary, 0, len(list))
	for _, raw := range list {
		log, err := convertSessionLogFromStore(raw)
		if err != nil {
			slog.Warn("skipping unreadable session log", "session_id", raw.SessionID, "error", err)
			continue
		}
		summary := LogSummary{
			SessionID: log.SessionID,
			PatientID: log.PatientID,
			Correct:   log.Correct(),
			Total:     len(log.Results),
			UpdatedAt: log.UpdatedAt,
		}
		if n := len(log.Turns); n > 0 {
			summary.LastMessage = log.Turns[n-1].Content
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *logStore) CleanupExpired(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, fmt.Errorf("retention days must be positive, got %d", retentionDays)
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays).Unix()

	deleted, err := s.store.DeleteSessionLogs(ctx, &store.DeleteSessionLog{CreatedBefore: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired session logs: %w", err)
	}
	if deleted > 0 {
		s.invalidateCache(ctx, cache.Key(cachePrefix, "*"))
	}
	return deleted, nil
}

func convertSessionLogFromStore(raw *store.SessionLog) (*SessionLog, error) {
	var body payload
	if err := json.Unmarshal([]byte(raw.Payload), &body); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session log %s: %w", raw.SessionID, err)
	}
	return &SessionLog{
		SessionID: raw.SessionID,
		PatientID: raw.PatientID,
		Turns:     body.Turns,
		Results:   body.Results,
		Complete:  body.Complete,
		EndReason: body.EndReason,
		CreatedAt: raw.CreatedTs,
		UpdatedAt: raw.UpdatedTs,
	}, nil
}

func (s *logStore) updateCache(ctx context.Context, log *SessionLog) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(log)
	if err != nil {
		slog.Warn("failed to marshal session log for cache", "error", err)
		return
	}
	key := cache.Key(cachePrefix, log.SessionID)
	if err := s.cache.Set(ctx, key, data, cacheTTL); err != nil {
		slog.Warn("failed to update cache", "key", key, "error", err)
	}
}

func (s *logStore) loadFromCache(ctx context.Context, sessionID string) *SessionLog {
	if s.cache == nil {
		return nil
	}
	key := cache.Key(cachePrefix, sessionID)
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil
	}
	var log SessionLog
	if err := json.Unmarshal(data, &log); err != nil {
		slog.Warn("failed to unmarshal cached session log", "key", key, "error", err)
		return nil
	}
	return &log
}

func (s *logStore) invalidateCache(ctx context.Context, pattern string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, pattern); err != nil {
		slog.Warn("failed to invalidate cache", "pattern", pattern, "error", err)
	}
}

var _ LogService = (*logStore)(nil)
