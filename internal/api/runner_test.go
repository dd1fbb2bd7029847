package api

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/reachly/reachly/internal/campaign"
)

// blockingEngine runs until released, recording the contexts it saw.
type blockingEngine struct {
	mu       sync.Mutex
	started  chan struct{}
	release  chan struct{}
	runs     int
	lastCtx  context.Context
	result   *campaign.RunResult
	runError error
}

func newBlockingEngine() *blockingEngine {
	return &blockingEngine{
		started: make(chan struct{}, 8),
		release: make(chan struct{}),
		result:  &campaign.RunResult{Status: campaign.RunCompleted},
	}
}

func (e *blockingEngine) Run(ctx context.Context, req campaign.RunRequest) (*campaign.RunResult, error) {
	e.mu.Lock()
	e.runs++
	e.lastCtx = ctx
	e.mu.Unlock()

	e.started <- struct{}{}
	select {
	case <-e.release:
	case <-ctx.Done():
	}
	return e.result, e.runError
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestRunnerSerializesRuns(t *testing.T) {
	engine := newBlockingEngine()
	r := NewRunner(engine, nil)

	st, err := r.Start(context.Background(), campaign.RunRequest{Mode: campaign.ModeDryRun})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if st.ID == "" || !st.Active {
		t.Errorf("unexpected initial state: %+v", st)
	}
	<-engine.started

	// A second run while the first is active is rejected.
	if _, err := r.Start(context.Background(), campaign.RunRequest{}); !errors.Is(err, ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}

	close(engine.release)
	waitFor(t, func() bool { return r.Last() != nil && !r.Last().Active })

	// After completion a new run may start.
	engine.release = make(chan struct{})
	if _, err := r.Start(context.Background(), campaign.RunRequest{}); err != nil {
		t.Fatalf("start after finish: %v", err)
	}
	<-engine.started
	close(engine.release)
	waitFor(t, func() bool { return !r.Last().Active })
}

func TestRunnerLastHoldsResult(t *testing.T) {
	engine := newBlockingEngine()
	engine.result = &campaign.RunResult{Status: campaign.RunCompleted, Attempted: 2, Succeeded: 2}
	r := NewRunner(engine, nil)

	if r.Last() != nil {
		t.Error("Last should be nil before any run")
	}

	if _, err := r.Start(context.Background(), campaign.RunRequest{Mode: campaign.ModeSend}); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-engine.started
	close(engine.release)
	waitFor(t, func() bool { return !r.Last().Active })

	st := r.Last()
	if st.Result == nil || st.Result.Attempted != 2 {
		t.Errorf("result not captured: %+v", st)
	}
	if st.FinishedAt == nil {
		t.Error("FinishedAt not set")
	}
	if st.Error != "" {
		t.Errorf("unexpected error: %s", st.Error)
	}
}

func TestRunnerStartReturnsSnapshot(t *testing.T) {
	engine := newBlockingEngine()
	close(engine.release) // the run finishes as soon as it starts
	r := NewRunner(engine, nil)

	st, err := r.Start(context.Background(), campaign.RunRequest{Mode: campaign.ModeDryRun})
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	// Serializing the returned state must be safe while the background
	// goroutine records the finish.
	if _, err := json.Marshal(st); err != nil {
		t.Fatalf("marshal: %v", err)
	}

	waitFor(t, func() bool { return !r.Last().Active })

	// The caller's copy is a snapshot of the start, untouched by the finish.
	if !st.Active || st.FinishedAt != nil || st.Result != nil {
		t.Errorf("returned state was mutated after start: %+v", st)
	}
	if last := r.Last(); last.ID != st.ID {
		t.Errorf("Last tracks a different run: %s vs %s", last.ID, st.ID)
	}
}

func TestRunnerCancel(t *testing.T) {
	engine := newBlockingEngine()
	r := NewRunner(engine, nil)

	if r.Cancel() {
		t.Error("Cancel with no active run should report false")
	}

	if _, err := r.Start(context.Background(), campaign.RunRequest{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-engine.started

	if !r.Cancel() {
		t.Fatal("Cancel with an active run should report true")
	}
	waitFor(t, func() bool { return !r.Last().Active })

	engine.mu.Lock()
	ctxErr := engine.lastCtx.Err()
	engine.mu.Unlock()
	if ctxErr == nil {
		t.Error("engine context was not cancelled")
	}
}

func TestRunnerOnFinish(t *testing.T) {
	engine := newBlockingEngine()
	engine.runError = errors.New("log write failed")

	finished := make(chan *RunState, 1)
	r := NewRunner(engine, func(st *RunState) { finished <- st })

	if _, err := r.Start(context.Background(), campaign.RunRequest{}); err != nil {
		t.Fatalf("start: %v", err)
	}
	<-engine.started
	close(engine.release)

	select {
	case st := <-finished:
		if st.Error != "log write failed" {
			t.Errorf("error not propagated: %+v", st)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onFinish not called")
	}
}
