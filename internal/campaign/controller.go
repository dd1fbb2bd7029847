package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
)

// Default inter-send pacing, used when a request leaves the bounds unset.
const (
	DefaultMinDelay = 15 * time.Second
	DefaultMaxDelay = 45 * time.Second
)

// Controller is the campaign entry point. It reconciles contact status from
// the activity log, filters the eligible set, and drives the draft or
// dispatch pipeline. All campaign progress lives in the activity log; the
// controller keeps no state of its own between runs.
type Controller struct {
	log       Log
	contacts  ContactSource
	generator Generator
	deliverer Deliverer
	drafts    DraftStore
	pacer     Pacer
	sender    SenderProfile
	logger    *slog.Logger
}

// Log is the subset of the activity log the controller needs.
type Log interface {
	Append(ctx context.Context, e *activitylog.Entry) error
	ReadAll(ctx context.Context) ([]activitylog.Entry, error)
}

// Options configures a Controller.
type Options struct {
	Log       Log
	Contacts  ContactSource
	Generator Generator
	Deliverer Deliverer
	Drafts    DraftStore // optional
	Pacer     Pacer      // optional, defaults to a RandomPacer
	Sender    SenderProfile
	Logger    *slog.Logger
}

// NewController creates a controller.
func NewController(opts Options) *Controller {
	if opts.Pacer == nil {
		opts.Pacer = NewRandomPacer()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		log:       opts.Log,
		contacts:  opts.Contacts,
		generator: opts.Generator,
		deliverer: opts.Deliverer,
		drafts:    opts.Drafts,
		pacer:     opts.Pacer,
		sender:    opts.Sender,
		logger:    opts.Logger.With("component", "campaign"),
	}
}

// Reconciled returns the status-annotated view of the whole directory.
func (c *Controller) Reconciled(ctx context.Context) ([]ContactView, error) {
	contacts, err := c.contacts.ListContacts()
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	entries, err := c.log.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read activity log: %w", err)
	}
	return Reconcile(contacts, entries), nil
}

// Run executes one campaign invocation: reconcile, filter, then draft or
// dispatch. An empty eligible set is not an error; the result simply contains
// no attempts.
//
// On a structural fault (the log itself cannot be written) Run returns both
// the partial result, marked CANCELLED, and the fault: everything durably
// logged before the fault stands.
func (c *Controller) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	views, err := c.Reconciled(ctx)
	if err != nil {
		return nil, err
	}

	eligible, err := EligibleContacts(views, req.Mode, req.Scope)
	if err != nil {
		return nil, err
	}

	result := &RunResult{Status: RunCompleted, Results: []ContactResult{}}
	if len(eligible) == 0 {
		c.logger.Info("nothing to process", "mode", req.Mode)
		return result, nil
	}

	c.logger.Info("run starting",
		"mode", req.Mode,
		"eligible", len(eligible),
		"scope_email", req.Scope.Email,
		"scope_limit", req.Scope.Limit,
	)

	switch req.Mode {
	case ModeSend:
		err = c.dispatch(ctx, eligible, req, result)
	default:
		err = c.draft(ctx, eligible, result)
	}

	c.logger.Info("run finished",
		"mode", req.Mode,
		"status", result.Status,
		"attempted", result.Attempted,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, err
}

// append writes a log entry, treating failure as a structural fault.
func (c *Controller) append(ctx context.Context, e *activitylog.Entry, result *RunResult) error {
	if err := c.log.Append(ctx, e); err != nil {
		result.Status = RunCancelled
		return fmt.Errorf("failed to append activity log entry for %s: %w", e.Email, err)
	}
	return nil
}
