package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/reachly/reachly/internal/activitylog"
	"github.com/reachly/reachly/internal/campaign"
)

// StatusProvider supplies the reconciled contact view for gauge refreshes.
type StatusProvider interface {
	Reconciled(ctx context.Context) ([]campaign.ContactView, error)
}

// LogStatsProvider supplies activity log statistics.
type LogStatsProvider interface {
	Stats(ctx context.Context) (*activitylog.Stats, error)
}

// Collector periodically refreshes the directory and log gauges.
type Collector struct {
	metrics  *Metrics
	statuses StatusProvider
	logStats LogStatsProvider
	interval time.Duration
	logger   *slog.Logger

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewCollector creates a gauge collector.
func NewCollector(m *Metrics, statuses StatusProvider, logStats LogStatsProvider, interval time.Duration, logger *slog.Logger) *Collector {
	if interval == 0 {
		interval = 30 * time.Second
	}
	return &Collector{
		metrics:  m,
		statuses: statuses,
		logStats: logStats,
		interval: interval,
		logger:   logger.With("component", "metrics"),
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic refreshes.
func (c *Collector) Start(ctx context.Context) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		c.refresh(ctx)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stopCh:
				return
			case <-ticker.C:
				c.refresh(ctx)
			}
		}
	}()
}

// Stop halts the collector and waits for the refresh loop to exit.
func (c *Collector) Stop() {
	close(c.stopCh)
	c.wg.Wait()
}

// Refresh recomputes the gauges once.
func (c *Collector) Refresh(ctx context.Context) {
	c.refresh(ctx)
}

func (c *Collector) refresh(ctx context.Context) {
	views, err := c.statuses.Reconciled(ctx)
	if err != nil {
		c.logger.Error("failed to reconcile contact statuses", "error", err)
	} else {
		counts := map[campaign.Status]int{
			campaign.StatusNoEmail: 0,
			campaign.StatusPending: 0,
			campaign.StatusDrafted: 0,
			campaign.StatusSent:    0,
			campaign.StatusErrored: 0,
		}
		for _, v := range views {
			counts[v.Status]++
		}
		for status, n := range counts {
			c.metrics.ContactsByStatus.WithLabelValues(string(status)).Set(float64(n))
		}
	}

	stats, err := c.logStats.Stats(ctx)
	if err != nil {
		c.logger.Error("failed to read activity log stats", "error", err)
		return
	}
	c.metrics.LogEntriesTotal.Set(float64(stats.Total))
}
