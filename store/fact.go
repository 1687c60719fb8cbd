package store

// Fact is a single rehearsable prompt/answer pair with its usage statistics.
type Fact struct {
	ID        string
	PatientID string
	// Seq is the insertion order, used to break ties between equally stale facts.
	Seq int64

	Prompt   string
	Answer   string
	Topic    string
	Keywords []string
	Hints    []string

	PracticeCount   int32
	SuccessRate     float64
	LastPracticedTs int64 // unix seconds, 0 when never practiced
	CreatedTs       int64
	UpdatedTs       int64
}

// FindFact specifies the conditions for finding facts.
type FindFact struct {
	ID        *string
	PatientID *string
	Topic     *string

	// LeastRecentFirst orders by last_practiced_ts then seq, ascending.
	// The default order is seq ascending.
	LeastRecentFirst bool
	Limit            int
}

// UpdateFact specifies the fields to update on a fact.
type UpdateFact struct {
	ID string

	Prompt          *string
	Answer          *string
	Topic           *string
	Keywords        *[]string
	Hints           *[]string
	PracticeCount   *int32
	SuccessRate     *float64
	LastPracticedTs *int64
}
