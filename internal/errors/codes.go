// Package errors defines the structured error taxonomy of the recall trainer.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type for training sessions.
type ErrorCode string

const (
	// ErrCodeInputTimeout indicates no response arrived within the input budget.
	ErrCodeInputTimeout ErrorCode = "INPUT_TIMEOUT"
	// ErrCodeNoAnswer indicates the patient explicitly withdrew from answering.
	ErrCodeNoAnswer ErrorCode = "NO_ANSWER"
	// ErrCodeJudgeUnavailable indicates the semantic judge could not be reached.
	ErrCodeJudgeUnavailable ErrorCode = "JUDGE_UNAVAILABLE"
	// ErrCodeFactNotFound indicates a fact id unknown to the repository.
	ErrCodeFactNotFound ErrorCode = "FACT_NOT_FOUND"
	// ErrCodeSessionDeadlineExceeded indicates the session time cap was reached.
	ErrCodeSessionDeadlineExceeded ErrorCode = "SESSION_DEADLINE_EXCEEDED"
	// ErrCodeSessionFailed indicates a fatal selection or finalization failure.
	ErrCodeSessionFailed ErrorCode = "SESSION_FAILED"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// TrainerError represents a structured error for training operations.
type TrainerError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *TrainerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *TrainerError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error.
func (e *TrainerError) WithContext(key string, value any) *TrainerError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// GetCode returns the error code.
func (e *TrainerError) GetCode() ErrorCode {
	return e.Code
}

// InputTimeout creates an input timeout error.
func InputTimeout(msg string) *TrainerError {
	return &TrainerError{Code: ErrCodeInputTimeout, Message: msg}
}

// NoAnswer creates a withdrawal error.
func NoAnswer(msg string) *TrainerError {
	return &TrainerError{Code: ErrCodeNoAnswer, Message: msg}
}

// JudgeUnavailable creates a judge unavailable error.
func JudgeUnavailable(msg string, cause error) *TrainerError {
	return &TrainerError{Code: ErrCodeJudgeUnavailable, Message: msg, Cause: cause}
}

// FactNotFound creates a fact not found error.
func FactNotFound(factID string) *TrainerError {
	return &TrainerError{
		Code:    ErrCodeFactNotFound,
		Message: fmt.Sprintf("fact not found: %s", factID),
	}
}

// SessionDeadlineExceeded creates a session deadline error.
func SessionDeadlineExceeded(msg string) *TrainerError {
	return &TrainerError{Code: ErrCodeSessionDeadlineExceeded, Message: msg}
}

// SessionFailed creates a fatal session error.
func SessionFailed(msg string, cause error) *TrainerError {
	return &TrainerError{Code: ErrCodeSessionFailed, Message: msg, Cause: cause}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *TrainerError {
	return &TrainerError{Code: ErrCodeInvalidArgument, Message: msg}
}

// Wrap wraps an existing error with additional context.
func Wrap(cause error, code ErrorCode, msg string) *TrainerError {
	return &TrainerError{Code: code, Message: msg, Cause: cause}
}

// IsCode checks if any error in the chain carries the given code.
func IsCode(err error, code ErrorCode) bool {
	var te *TrainerError
	if errors.As(err, &te) {
		return te.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not a TrainerError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	var te *TrainerError
	if errors.As(err, &te) {
		return te.Code
	}
	return defaultCode
}
