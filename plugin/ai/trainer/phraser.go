package trainer

import (
	"context"
	"fmt"
)

// Phraser writes the greeting and closing lines. Failures fall back to fixed text.
type Phraser interface {
	Greeting(ctx context.Context, patientName string) (string, error)
	Summary(ctx context.Context, correct, total int) (string, error)
}

type fixedPhraser struct{}

func (fixedPhraser) Greeting(_ context.Context, patientName string) (string, error) {
	return defaultGreeting(patientName), nil
}

func (fixedPhraser) Summary(_ context.Context, correct, total int) (string, error) {
	return defaultSummary(correct, total), nil
}

func defaultGreeting(patientName string) string {
	if patientName == "" {
		return "Hello! How are you feeling today?"
	}
	return fmt.Sprintf("Hello %s! How are you feeling today?", patientName)
}

func defaultSummary(correct, total int) string {
	if total == 0 {
		return "Thank you for spending time with me today."
	}
	score := percentage(correct, total)
	line := fmt.Sprintf("You answered %d of %d questions correctly (%.0f%%).", correct, total, score)
	switch {
	case score >= 80:
		return line + " Excellent memory work!"
	case score >= 50:
		return line + " Good effort, keep practicing!"
	default:
		return line + " Every session helps. Let's keep going together."
	}
}

func percentage(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}
