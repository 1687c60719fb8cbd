package trainer

import (
	"time"

	"github.com/hrygo/rehearse/plugin/ai/retention"
	"github.com/hrygo/rehearse/plugin/ai/session"
)

// FactResult is what happened to one fact.
type FactResult struct {
	FactID  string  `json:"fact_id"`
	Prompt  string  `json:"prompt"`
	Outcome Outcome `json:"outcome"`
	// Attempts counts consumed attempts. Neutral replies are not attempts.
	Attempts   int  `json:"attempts"`
	HintsShown int  `json:"hints_shown"`
	Revealed   bool `json:"revealed"`
	// Err is set when a collaborator failure degraded the fact.
	Err string `json:"error,omitempty"`
}

// Correct reports whether the fact was answered correctly.
func (r *FactResult) Correct() bool {
	return r.Outcome == OutcomeCorrect
}

// Result is the outcome of one session.
type Result struct {
	SessionID  string         `json:"session_id"`
	PatientID  string         `json:"patient_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	Difficulty retention.Tier `json:"difficulty"`
	Facts      []FactResult   `json:"facts"`
	Transcript []session.Turn `json:"transcript"`
	Correct    int            `json:"correct"`
	Total      int            `json:"total"`
	HintsUsed  int            `json:"hints_used"`
	Complete   bool           `json:"complete"`
	EndReason  string         `json:"end_reason"`
}

// Score returns the percentage of correct facts.
func (r *Result) Score() float64 {
	return percentage(r.Correct, r.Total)
}

// Duration returns the elapsed session time.
func (r *Result) Duration() time.Duration {
	if r.End.IsZero() {
		return 0
	}
	return r.End.Sub(r.Start)
}

// Log converts the result into its persisted form.
func (r *Result) Log() *session.SessionLog {
	rows := make([]session.ResultRow, 0, len(r.Facts))
	for _, f := range r.Facts {
		rows = append(rows, session.ResultRow{
			FactID:   f.FactID,
			Correct:  f.Correct(),
			Attempts: f.Attempts,
			Outcome:  f.Outcome.String(),
		})
	}
	return &session.SessionLog{
		SessionID: r.SessionID,
		PatientID: r.PatientID,
		Turns:     append([]session.Turn(nil), r.Transcript...),
		Results:   rows,
		Complete:  r.Complete,
		EndReason: r.EndReason,
		CreatedAt: r.Start.Unix(),
	}
}

// Record converts the result into a scored session history entry.
func (r *Result) Record() *retention.SessionRecord {
	return &retention.SessionRecord{
		ID:         r.SessionID,
		StartedAt:  r.Start,
		EndedAt:    r.End,
		Total:      r.Total,
		Correct:    r.Correct,
		HintsUsed:  r.HintsUsed,
		Score:      r.Score(),
		Difficulty: r.Difficulty,
		Duration:   r.Duration(),
		Complete:   r.Complete,
		EndReason:  r.EndReason,
	}
}

func (r *Result) tally() {
	r.Correct, r.Total, r.HintsUsed = 0, 0, 0
	for i := range r.Facts {
		r.Total++
		if r.Facts[i].Correct() {
			r.Correct++
		}
		r.HintsUsed += r.Facts[i].HintsShown
	}
}
