// Package review provides the fact store that rehearsal sessions draw from.
// Facts are selected least-recently-practiced first.
package review

import (
	"errors"
	"time"
)

// ErrFactNotFound is returned when a fact id is unknown to the repository.
var ErrFactNotFound = errors.New("fact not found")

// Fact is a rehearsable prompt/answer pair with its usage statistics.
type Fact struct {
	ID        string   `json:"id"`
	PatientID string   `json:"patient_id"`
	Seq       int64    `json:"seq"`
	Prompt    string   `json:"prompt"`
	Answer    string   `json:"answer"`
	Topic     string   `json:"topic,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Hints     []string `json:"hints,omitempty"`

	CreatedAt       time.Time `json:"created_at"`
	PracticeCount   int       `json:"practice_count"`
	SuccessRate     float64   `json:"success_rate"`
	LastPracticedAt time.Time `json:"last_practiced_at"`
}

// TopicKey returns the retention key of the fact: its topic, or its id.
func (f *Fact) TopicKey() string {
	if f.Topic != "" {
		return f.Topic
	}
	return f.ID
}

// Clone returns a deep copy of the fact.
func (f *Fact) Clone() *Fact {
	c := *f
	c.Keywords = append([]string(nil), f.Keywords...)
	c.Hints = append([]string(nil), f.Hints...)
	return &c
}

// FactStats contains statistics about a patient's practice progress.
type FactStats struct {
	TotalFacts      int `json:"total_facts"`
	NewFacts        int `json:"new_facts"`
	PracticedToday  int `json:"practiced_today"`
	MasteredFacts   int `json:"mastered_facts"`
	StreakDays      int `json:"streak_days"`
	TotalPractices  int `json:"total_practices"`
	AverageAccuracy int `json:"average_accuracy"` // percentage
}

// MasteryMinPractices is the minimum practice count before a fact can count as mastered.
const MasteryMinPractices = 3

// MasterySuccessRate is the success rate at or above which a practiced fact is mastered.
const MasterySuccessRate = 0.8
