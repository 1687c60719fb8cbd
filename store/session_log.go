package store

// SessionLog is the serialized transcript and results table of a training session.
type SessionLog struct {
	SessionID string
	PatientID string
	// Payload is the JSON encoded log body.
	Payload   string
	CreatedTs int64
	UpdatedTs int64
}

// FindSessionLog specifies the conditions for finding session logs.
// Results are ordered by created_ts descending.
type FindSessionLog struct {
	SessionID *string
	PatientID *string
	Limit     int
}

// DeleteSessionLog specifies which session logs to delete.
type DeleteSessionLog struct {
	SessionID *string
	// CreatedBefore deletes logs created strictly before this unix timestamp.
	CreatedBefore *int64
}
