package trainer

// Phase is a state of the session state machine.
type Phase int32

const (
	PhaseInit Phase = iota
	PhaseWarmup
	PhaseQuestioning
	PhaseSummary
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseWarmup:
		return "warmup"
	case PhaseQuestioning:
		return "questioning"
	case PhaseSummary:
		return "summary"
	case PhaseFinalized:
		return "finalized"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of one fact.
type Outcome int

const (
	OutcomeIncorrect Outcome = iota
	OutcomeCorrect
	OutcomeTimedOut
	OutcomeWithdrawn
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCorrect:
		return "correct"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomeWithdrawn:
		return "withdrawn"
	default:
		return "incorrect"
	}
}

// End reasons recorded on the result.
const (
	EndCompleted       = "completed"
	EndNoFacts         = "no_facts"
	EndWarmupFailed    = "warmup_failed"
	EndSessionDeadline = "session_deadline"
	EndInputClosed     = "input_closed"
	EndCancelled       = "cancelled"
	EndFailed          = "failed"
)
