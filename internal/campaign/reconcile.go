package campaign

import (
	"github.com/reachly/reachly/internal/activitylog"
)

// ContactView is a contact annotated with its derived status.
type ContactView struct {
	Contact
	Status Status `json:"status"`
}

// Reconcile computes the derived status of every contact from the activity
// log. Entries are folded in write order so that the latest entry for an
// email wins, regardless of outcome. The result preserves directory order.
//
// Reconcile is a pure function: the same (contacts, entries) pair always
// yields the same statuses.
func Reconcile(contacts []Contact, entries []activitylog.Entry) []ContactView {
	latest := make(map[string]activitylog.Outcome, len(entries))
	for _, e := range entries {
		key := NormalizeEmail(e.Email)
		if key == "" {
			continue
		}
		latest[key] = e.Outcome
	}

	views := make([]ContactView, 0, len(contacts))
	for _, c := range contacts {
		v := ContactView{Contact: c}
		switch {
		case !c.HasUsableEmail():
			v.Status = StatusNoEmail
		default:
			outcome, ok := latest[NormalizeEmail(c.Email)]
			if !ok {
				v.Status = StatusPending
				break
			}
			switch outcome {
			case activitylog.OutcomeSent:
				v.Status = StatusSent
			case activitylog.OutcomeDrafted:
				v.Status = StatusDrafted
			case activitylog.OutcomeErrored:
				v.Status = StatusErrored
			default:
				v.Status = StatusPending
			}
		}
		views = append(views, v)
	}
	return views
}
