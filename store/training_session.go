package store

// TrainingSession is the persisted summary of one finished training session.
type TrainingSession struct {
	ID        string
	PatientID string

	StartedTs       int64
	EndedTs         int64
	Total           int32
	Correct         int32
	HintsUsed       int32
	ScorePercentage float64
	Difficulty      string
	DurationSeconds int64
	Complete        bool
	EndReason       string
}

// FindTrainingSession specifies the conditions for finding training sessions.
// Results are ordered by started_ts descending.
type FindTrainingSession struct {
	ID        *string
	PatientID *string
	Limit     int
}
