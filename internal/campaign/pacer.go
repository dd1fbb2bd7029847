package campaign

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Pacer enforces the inter-send delay. It is an interface so tests can
// substitute a fake that records calls instead of sleeping.
type Pacer interface {
	// Pace blocks for a duration drawn from [min, max], or until the
	// context is cancelled, in which case it returns the context error.
	Pace(ctx context.Context, min, max time.Duration) error
}

// RandomPacer draws delays uniformly from the requested range.
type RandomPacer struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomPacer creates a pacer seeded from the current time.
func NewRandomPacer() *RandomPacer {
	return NewSeededPacer(time.Now().UnixNano())
}

// NewSeededPacer creates a pacer with a fixed seed for reproducible delays.
func NewSeededPacer(seed int64) *RandomPacer {
	return &RandomPacer{rnd: rand.New(rand.NewSource(seed))}
}

func (p *RandomPacer) Pace(ctx context.Context, min, max time.Duration) error {
	if max < min {
		max = min
	}

	d := min
	if max > min {
		p.mu.Lock()
		d = min + time.Duration(p.rnd.Int63n(int64(max-min)+1))
		p.mu.Unlock()
	}
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
