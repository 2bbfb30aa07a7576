package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"teamnet/pkg/logger"
)

const (
	refreshAttempts = 3
	refreshBackoff  = 200 * time.Millisecond
)

// RefreshFunc rebuilds the value for a cache key from the source of truth
type RefreshFunc func(ctx context.Context) (interface{}, error)

type refreshJob struct {
	key   string
	ttl   time.Duration
	build RefreshFunc
}

// Coordinator applies cache invalidation for entity writes. Per-entity
// view keys are cleared synchronously on the write path; collection keys
// are rebuilt in the background so writes do not wait on full-collection
// reads. Each refresh is retried, and refreshes that still fail are
// logged and counted rather than dropped silently.
type Coordinator struct {
	store  Store
	logger *zap.Logger

	jobs     chan refreshJob
	wg       sync.WaitGroup
	workers  sync.WaitGroup
	failures atomic.Int64

	mu      sync.Mutex
	stopped bool
}

// NewCoordinator starts a coordinator with a single background worker
func NewCoordinator(store Store) *Coordinator {
	c := &Coordinator{
		store:  store,
		logger: logger.Get(),
		jobs:   make(chan refreshJob, 64),
	}
	c.workers.Add(1)
	go c.run()
	return c
}

// Clear removes view keys synchronously. Store failures are logged and
// swallowed: the write to the graph already happened, so the mutation
// must not report failure over a cache hiccup.
func (c *Coordinator) Clear(ctx context.Context, keys ...string) {
	if err := c.store.Delete(ctx, keys...); err != nil {
		c.logger.Warn("Failed to clear cache keys",
			zap.Strings("keys", keys),
			zap.Error(err))
	}
}

// Refresh schedules a background rebuild of a cache key. After Stop the
// call is a no-op.
func (c *Coordinator) Refresh(key string, ttl time.Duration, build RefreshFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		c.logger.Warn("Cache refresh dropped, coordinator stopped", zap.String("key", key))
		return
	}
	c.wg.Add(1)
	c.jobs <- refreshJob{key: key, ttl: ttl, build: build}
}

// Flush blocks until every scheduled refresh has been processed
func (c *Coordinator) Flush() {
	c.wg.Wait()
}

// Failures returns how many refreshes exhausted their retries
func (c *Coordinator) Failures() int64 {
	return c.failures.Load()
}

// Stop drains pending refreshes and stops the worker
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.mu.Unlock()

	close(c.jobs)
	c.workers.Wait()
}

func (c *Coordinator) run() {
	defer c.workers.Done()
	for job := range c.jobs {
		c.process(job)
		c.wg.Done()
	}
}

func (c *Coordinator) process(job refreshJob) {
	ctx := context.Background()
	// Drop the stale value first so a rebuild that keeps failing leaves a
	// miss, not an outdated listing
	if err := c.store.Delete(ctx, job.key); err != nil {
		c.logger.Warn("Failed to clear key before refresh",
			zap.String("key", job.key),
			zap.Error(err))
	}
	var lastErr error
	for attempt := 1; attempt <= refreshAttempts; attempt++ {
		value, err := job.build(ctx)
		if err == nil {
			err = c.store.SetJSON(ctx, job.key, value, job.ttl)
		}
		if err == nil {
			return
		}
		lastErr = err
		if attempt < refreshAttempts {
			time.Sleep(refreshBackoff * time.Duration(attempt))
		}
	}
	c.failures.Add(1)
	c.logger.Error("Cache refresh failed",
		zap.String("key", job.key),
		zap.Error(lastErr))
}
