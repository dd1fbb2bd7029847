package api

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reachly/reachly/internal/campaign"
)

// ErrRunActive is returned when a run is requested while another is still in
// progress. Concurrent runs against one directory are never allowed; this
// lock is what serializes them.
var ErrRunActive = errors.New("a campaign run is already active")

// Engine is the campaign controller surface the runner drives.
type Engine interface {
	Run(ctx context.Context, req campaign.RunRequest) (*campaign.RunResult, error)
}

// RunState describes a started or finished run.
type RunState struct {
	ID         string              `json:"id"`
	Request    campaign.RunRequest `json:"request"`
	Active     bool                `json:"active"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
	Result     *campaign.RunResult `json:"result,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// Runner executes campaign runs in the background, one at a time.
type Runner struct {
	engine Engine

	mu     sync.Mutex
	active bool
	cancel context.CancelFunc
	last   *RunState

	onFinish func(st *RunState)
}

// NewRunner creates a runner. onFinish, if non-nil, is invoked after each run
// completes (used for metrics).
func NewRunner(engine Engine, onFinish func(st *RunState)) *Runner {
	return &Runner{engine: engine, onFinish: onFinish}
}

// Start begins a run in the background. It fails with ErrRunActive while a
// previous run has not finished. The returned state is a snapshot; the live
// struct stays private to the runner so the background goroutine can update
// it without racing callers.
func (r *Runner) Start(ctx context.Context, req campaign.RunRequest) (*RunState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active {
		return nil, ErrRunActive
	}

	runCtx, cancel := context.WithCancel(ctx)
	st := &RunState{
		ID:        uuid.New().String(),
		Request:   req,
		Active:    true,
		StartedAt: time.Now(),
	}
	r.active = true
	r.cancel = cancel
	r.last = st

	go func() {
		defer cancel()
		result, err := r.engine.Run(runCtx, req)

		r.mu.Lock()
		now := time.Now()
		st.Active = false
		st.FinishedAt = &now
		st.Result = result
		if err != nil {
			st.Error = err.Error()
		}
		r.active = false
		r.cancel = nil
		r.mu.Unlock()

		if r.onFinish != nil {
			r.onFinish(st)
		}
	}()

	snap := *st
	return &snap, nil
}

// Cancel requests cooperative cancellation of the active run. It returns
// false when no run is active.
func (r *Runner) Cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active || r.cancel == nil {
		return false
	}
	r.cancel()
	return true
}

// Last returns a copy of the most recent run state, or nil if none ran yet.
func (r *Runner) Last() *RunState {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return nil
	}
	st := *r.last
	return &st
}
