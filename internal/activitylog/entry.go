package activitylog

import "time"

// Outcome is the recorded result of one processed attempt.
type Outcome string

const (
	OutcomeSent    Outcome = "SENT"
	OutcomeDrafted Outcome = "DRAFTED"
	OutcomeErrored Outcome = "ERRORED"
)

// SubjectNA is recorded when an attempt failed before a subject existed.
const SubjectNA = "N/A"

// Entry is one immutable record in the activity log. Multiple entries may
// exist for the same email; the most recent one determines current status.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Email     string    `json:"email"`
	Company   string    `json:"company"`
	Outcome   Outcome   `json:"outcome"`
	Subject   string    `json:"subject"`
	Error     string    `json:"error,omitempty"`
}

// Stats holds per-outcome entry counts.
type Stats struct {
	Sent    int `json:"sent"`
	Drafted int `json:"drafted"`
	Errored int `json:"errored"`
	Total   int `json:"total"`
}
