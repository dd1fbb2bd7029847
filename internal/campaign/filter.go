package campaign

import (
	"errors"
	"fmt"
)

// Scope restriction errors. These are surfaced to the caller without any log
// mutation.
var (
	ErrUnknownContact = errors.New("contact not found")
	ErrNoUsableEmail  = errors.New("contact has no usable email address")
	ErrAlreadySent    = errors.New("contact was already sent to")
)

// Mode selects the pipeline a run drives.
type Mode string

const (
	ModeDryRun Mode = "DRY_RUN"
	ModeSend   Mode = "SEND"
)

// Scope restricts which contacts a run may touch. When Email is set the run
// targets exactly that contact; otherwise Limit caps the number of eligible
// contacts taken in directory order (0 means no cap).
type Scope struct {
	Email string
	Limit int

	// Force allows an explicitly scoped send to a contact that is already
	// SENT. It has no effect on bulk scope.
	Force bool
}

// EligibleContacts selects the contacts a run may process.
//
// Bulk scope takes PENDING contacts (plus DRAFTED for send mode, which
// promotes a draft to sent) in directory order, truncated to the limit.
// Single-contact scope requires the contact to exist and have a usable
// email; sending to an already-SENT contact additionally requires Force.
func EligibleContacts(views []ContactView, mode Mode, scope Scope) ([]ContactView, error) {
	if scope.Email != "" {
		return eligibleSingle(views, mode, scope)
	}

	var eligible []ContactView
	for _, v := range views {
		switch v.Status {
		case StatusPending:
		case StatusDrafted:
			if mode != ModeSend {
				continue
			}
		default:
			continue
		}
		eligible = append(eligible, v)
		if scope.Limit > 0 && len(eligible) >= scope.Limit {
			break
		}
	}
	return eligible, nil
}

func eligibleSingle(views []ContactView, mode Mode, scope Scope) ([]ContactView, error) {
	key := NormalizeEmail(scope.Email)
	for _, v := range views {
		if NormalizeEmail(v.Email) != key {
			continue
		}
		if !v.HasUsableEmail() {
			return nil, fmt.Errorf("%w: %s", ErrNoUsableEmail, scope.Email)
		}
		if mode == ModeSend && v.Status == StatusSent && !scope.Force {
			return nil, fmt.Errorf("%w: %s", ErrAlreadySent, scope.Email)
		}
		return []ContactView{v}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownContact, scope.Email)
}
