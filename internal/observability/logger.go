package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	// LogFieldSessionID is the field name for the training session id.
	LogFieldSessionID = "session_id"
	// LogFieldPatientID is the field name for patient id.
	LogFieldPatientID = "patient_id"
	// LogFieldPhase is the field name for the session phase.
	LogFieldPhase = "phase"
	// LogFieldFactID is the field name for fact id.
	LogFieldFactID = "fact_id"
	// LogFieldAttempt is the field name for the 0-based attempt index.
	LogFieldAttempt = "attempt"
	// LogFieldOutcome is the field name for an attempt outcome.
	LogFieldOutcome = "outcome"
	// LogFieldDuration is the field name for duration in milliseconds.
	LogFieldDuration = "duration_ms"
	// LogFieldErrorCode is the field name for error code.
	LogFieldErrorCode = "error_code"
)

// SessionContext carries the identity of one training session for structured logging.
type SessionContext struct {
	SessionID string
	PatientID string
	Phase     string
	StartTime time.Time
	Logger    *slog.Logger
}

// NewSessionContext creates a session context with a generated session id.
func NewSessionContext(logger *slog.Logger, patientID string) *SessionContext {
	return NewSessionContextWithID(logger, uuid.New().String(), patientID)
}

// NewSessionContextWithID creates a session context with a specific session id.
func NewSessionContextWithID(logger *slog.Logger, sessionID, patientID string) *SessionContext {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionContext{
		SessionID: sessionID,
		PatientID: patientID,
		StartTime: time.Now(),
		Logger:    logger,
	}
}

// SetPhase records the phase reported with every subsequent log line.
func (s *SessionContext) SetPhase(phase string) {
	s.Phase = phase
}

// WithFields returns a new logger with additional fields.
func (s *SessionContext) WithFields(attrs ...slog.Attr) *slog.Logger {
	combined := s.baseAttrsAppended(attrs...)
	args := make([]any, 0, len(combined))
	for _, attr := range combined {
		args = append(args, attr)
	}
	return s.Logger.With(args...)
}

// Info logs an info message.
func (s *SessionContext) Info(msg string, attrs ...slog.Attr) {
	s.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, s.baseAttrsAppended(attrs...)...)
}

// Debug logs a debug message.
func (s *SessionContext) Debug(msg string, attrs ...slog.Attr) {
	s.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, s.baseAttrsAppended(attrs...)...)
}

// Warn logs a warning message.
func (s *SessionContext) Warn(msg string, attrs ...slog.Attr) {
	s.Logger.LogAttrs(context.Background(), slog.LevelWarn, msg, s.baseAttrsAppended(attrs...)...)
}

// Error logs an error message with the error.
func (s *SessionContext) Error(msg string, err error, attrs ...slog.Attr) {
	allAttrs := append(attrs, slog.String("error", err.Error()))
	s.Logger.LogAttrs(context.Background(), slog.LevelError, msg, s.baseAttrsAppended(allAttrs...)...)
}

func (s *SessionContext) baseAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String(LogFieldSessionID, s.SessionID),
		slog.String(LogFieldPatientID, s.PatientID),
	}
	if s.Phase != "" {
		attrs = append(attrs, slog.String(LogFieldPhase, s.Phase))
	}
	return attrs
}

func (s *SessionContext) baseAttrsAppended(attrs ...slog.Attr) []slog.Attr {
	return append(s.baseAttrs(), attrs...)
}

type ctxKey struct{}

// WithSessionContext adds the session context to the context.
func WithSessionContext(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, sc)
}

// FromContext extracts the session context from the context.
func FromContext(ctx context.Context) (*SessionContext, bool) {
	sc, ok := ctx.Value(ctxKey{}).(*SessionContext)
	return sc, ok
}

// LoggerFrom returns a logger carrying the session fields stored in ctx,
// or the default logger when ctx has none.
func LoggerFrom(ctx context.Context, attrs ...slog.Attr) *slog.Logger {
	if sc, ok := FromContext(ctx); ok {
		return sc.WithFields(attrs...)
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return slog.Default().With(args...)
}
