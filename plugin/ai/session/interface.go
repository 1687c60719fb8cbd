// Package session persists the transcript and results table of training sessions.
package session

import (
	"context"
	"time"
)

// LogService stores session logs.
type LogService interface {
	// SaveLog inserts or replaces the log of log.SessionID.
	SaveLog(ctx context.Context, log *SessionLog) error

	// LoadLog returns nil when no log exists for the session.
	LoadLog(ctx context.Context, sessionID string) (*SessionLog, error)

	// ListLogs returns the newest logs of a patient first.
	ListLogs(ctx context.Context, patientID string, limit int) ([]LogSummary, error)

	// CleanupExpired deletes logs created more than retentionDays ago.
	CleanupExpired(ctx context.Context, retentionDays int) (int64, error)
}

// Role identifies who produced a transcript turn.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleUser      Role = "user"
	RoleSystem    Role = "system"
)

// Turn is one transcript entry.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ResultRow is the outcome of one fact in a session.
type ResultRow struct {
	FactID   string `json:"fact_id"`
	Correct  bool   `json:"correct"`
	Attempts int    `json:"attempts"`
	Outcome  string `json:"outcome"`
}

// SessionLog is the persisted record of one session.
type SessionLog struct {
	SessionID string      `json:"session_id"`
	PatientID string      `json:"patient_id"`
	Turns     []Turn      `json:"turns"`
	Results   []ResultRow `json:"results"`
	Complete  bool        `json:"complete"`
	EndReason string      `json:"end_reason,omitempty"`
	CreatedAt int64       `json:"created_at"`
	UpdatedAt int64       `json:"updated_at"`
}

// Correct counts the correct rows.
func (l *SessionLog) Correct() int {
	n := 0
	for _, r := range l.Results {
		if r.Correct {
			n++
		}
	}
	return n
}

// LogSummary is a listing entry.
type LogSummary struct {
	SessionID   string `json:"session_id"`
	PatientID   string `json:"patient_id"`
	Correct     int    `json:"correct"`
	Total       int    `json:"total"`
	LastMessage string `json:"last_message"`
	UpdatedAt   int64  `json:"updated_at"`
}
