package store

// RetentionRecord is the cross-session attempt history of one fact or topic.
type RetentionRecord struct {
	PatientID string
	// TopicKey is the fact topic, or the fact id when the fact has no topic.
	TopicKey string
	// FactID is the fact that last touched the record.
	FactID string

	TimesAsked   int32
	TimesCorrect int32
	FirstAskedTs int64
	LastAskedTs  int64
}

// RetentionRate returns TimesCorrect/TimesAsked, or 0 when never asked.
func (r *RetentionRecord) RetentionRate() float64 {
	if r.TimesAsked <= 0 {
		return 0
	}
	return float64(r.TimesCorrect) / float64(r.TimesAsked)
}

// FindRetentionRecord specifies the conditions for finding retention records.
type FindRetentionRecord struct {
	PatientID *string
	TopicKey  *string
}
