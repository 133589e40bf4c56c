package query

import (
	"context"
	"time"
)

// Subscribe keeps the given key warm: it performs an initial fetch if the key
// is empty, then refreshes on every tick until ctx is cancelled. While a
// subscription is active, Invalidate refetches the key immediately instead of
// waiting for the next read.
//
// Polling is best-effort: a failed refresh keeps the previous value and the
// next tick tries again. There is no backoff; the interval is the retry.
func Subscribe[T any](ctx context.Context, c *Cache, key string, interval time.Duration, fetch func(context.Context) (T, error)) {
	fetcher := wrap(fetch)

	c.mu.Lock()
	e := c.entry(key)
	e.fetch = fetcher
	e.subscribers++
	if !e.hasValue && e.inflight == nil {
		c.startFetch(key, e)
	}
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.AddActiveSubscribers(1)
	}

	go func() {
		defer func() {
			c.mu.Lock()
			if e, ok := c.entries[key]; ok {
				e.subscribers--
			}
			c.mu.Unlock()
			if c.metrics != nil {
				c.metrics.AddActiveSubscribers(-1)
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.refresh(key)
			}
		}
	}()
}

// refresh starts a background fetch for key unless one is already running.
func (c *Cache) refresh(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || e.fetch == nil || e.inflight != nil {
		return
	}
	c.startFetch(key, e)
}
