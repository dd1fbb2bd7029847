package campaign

import (
	"context"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
)

// RunStatus is the terminal state of a batch.
type RunStatus string

const (
	RunCompleted RunStatus = "COMPLETED"
	RunCancelled RunStatus = "CANCELLED"
)

// RunRequest describes one invocation of the controller.
type RunRequest struct {
	Mode  Mode  `json:"mode"`
	Scope Scope `json:"scope"`

	// Inter-send pacing bounds, send mode only. Zero values fall back to
	// the controller defaults.
	MinDelay time.Duration `json:"min_delay"`
	MaxDelay time.Duration `json:"max_delay"`
}

// ContactResult is the per-contact outcome of a run. Every attempted contact
// appears exactly once.
type ContactResult struct {
	Email   string              `json:"email"`
	Company string              `json:"company,omitempty"`
	Outcome activitylog.Outcome `json:"outcome"`
	Subject string              `json:"subject,omitempty"`
	Body    string              `json:"body,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// RunResult summarizes one invocation. It is returned to the caller and is
// not persisted anywhere beyond the log entries it caused.
type RunResult struct {
	Status    RunStatus       `json:"status"`
	Results   []ContactResult `json:"results"`
	Attempted int             `json:"attempted"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
}

func (r *RunResult) record(cr ContactResult) {
	r.Results = append(r.Results, cr)
	r.Attempted++
	if cr.Outcome == activitylog.OutcomeErrored {
		r.Failed++
	} else {
		r.Succeeded++
	}
}

// Generator produces personalized email content for a contact. A single call
// is made per contact per attempt; retries are the collaborator's business.
type Generator interface {
	Generate(ctx context.Context, contact *Contact, sender SenderProfile) (*Draft, error)
}

// Deliverer hands a finished message to the mail provider. Any non-nil error
// is recorded verbatim as an ERRORED outcome.
type Deliverer interface {
	Deliver(ctx context.Context, to, subject, body string) error
}

// ContactSource supplies the working set of contacts in directory order.
type ContactSource interface {
	ListContacts() ([]Contact, error)
}

// DraftStore persists generated draft artifacts so a later send can reuse
// them.
type DraftStore interface {
	SaveDraft(contactID string, d *Draft) error
}
