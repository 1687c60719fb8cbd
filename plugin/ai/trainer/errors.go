package trainer

import (
	"fmt"

	trainererrors "github.com/hrygo/rehearse/internal/errors"
)

// SessionError is a fatal failure that ended a session early. The partial
// result returned alongside it has Complete == false.
type SessionError struct {
	Phase Phase
	Cause error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("session failed during %s: %v", e.Phase, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

func sessionError(phase Phase, msg string, cause error) *SessionError {
	if trainererrors.GetCodeFromError(cause, "") == "" {
		cause = trainererrors.SessionFailed(msg, cause)
	}
	return &SessionError{Phase: phase, Cause: cause}
}
