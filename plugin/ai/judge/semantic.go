package judge

import "context"

// SemanticVerdict is the answer of an external semantic judge.
type SemanticVerdict struct {
	Correct    bool    `json:"correct"`
	Confidence float64 `json:"confidence"`
	Feedback   string  `json:"feedback,omitempty"`
	Hint       string  `json:"hint,omitempty"`
}

// SemanticJudge evaluates free-form answers by meaning.
// It is optional; deterministic matching never depends on it.
type SemanticJudge interface {
	Judge(ctx context.Context, question, expected, answer string) (*SemanticVerdict, error)
}
