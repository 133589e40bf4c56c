// Package query implements the client-side read orchestration between page
// controllers and the gateway services: a key-value cache over query results
// with stale-while-revalidate reads, in-flight request deduplication,
// prefix invalidation, and sequence-guarded writes so a slow response can
// never clobber a fresher one.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"opsdash/internal/platform/metrics"
)

// Fetcher produces a fresh value for one cache key by calling the gateway.
type Fetcher func(ctx context.Context) (any, error)

// Cache is the query store. Construct one per process and pass it to the
// page controllers that need it; it starts empty and is discarded at exit.
// All entry state is guarded by mu, so writers to one key's slot are
// serialized; fetches themselves run outside the lock.
type Cache struct {
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries map[string]*entry
}

// entry is one key's slot.
type entry struct {
	value     any
	err       error
	hasValue  bool
	stale     bool
	fetchedAt time.Time

	// nextSeq numbers requests per key; appliedSeq records the newest
	// response applied so far. A completing fetch whose seq is not greater
	// than appliedSeq is dropped.
	nextSeq    uint64
	appliedSeq uint64

	inflight    *flight
	fetch       Fetcher
	subscribers int
}

// flight is one in-flight fetch, shared by every caller that arrives while
// it is still running.
type flight struct {
	done  chan struct{}
	value any
	err   error
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long a value is fresh before reads revalidate in the
// background. Zero keeps values fresh until invalidated.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithLogger sets the logger for background refresh failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

// WithMetrics enables hit/miss/dedup/staleness counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds a deterministic cache key from an entity bucket and query
// parameters. The first part is the bucket prefix mutations invalidate by.
func Key(parts ...any) string {
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = fmt.Sprint(p)
	}
	return strings.Join(segs, "/")
}

// Result is what a read returns. OK reports whether a value is present;
// Err carries the most recent fetch failure, which can coexist with a stale
// value kept from an earlier success.
type Result[T any] struct {
	Value T
	OK    bool
	Stale bool
	Err   error
}

// Fetch returns the cached value for key, refreshing it in the background
// when stale, or blocks on the first fetch when the key has never loaded.
// Concurrent calls for one key share a single underlying fetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, fetch func(context.Context) (T, error)) Result[T] {
	raw := c.read(ctx, key, wrap(fetch))
	return typed[T](raw)
}

// rawResult is the untyped counterpart of Result.
type rawResult struct {
	value any
	ok    bool
	stale bool
	err   error
}

func wrap[T any](fetch func(context.Context) (T, error)) Fetcher {
	return func(ctx context.Context) (any, error) {
		return fetch(ctx)
	}
}

func typed[T any](raw rawResult) Result[T] {
	res := Result[T]{OK: raw.ok, Stale: raw.stale, Err: raw.err}
	if raw.ok {
		if v, ok := raw.value.(T); ok {
			res.Value = v
		} else {
			res.OK = false
		}
	}
	return res
}

func (c *Cache) read(ctx context.Context, key string, fetch Fetcher) rawResult {
	c.mu.Lock()
	e := c.entry(key)
	e.fetch = fetch

	if e.hasValue {
		fresh := !e.stale && (c.ttl == 0 || time.Since(e.fetchedAt) < c.ttl)
		res := rawResult{value: e.value, ok: true, stale: !fresh, err: e.err}
		if !fresh && e.inflight == nil {
			c.startFetch(key, e)
		}
		c.mu.Unlock()
		c.countHit()
		return res
	}

	// No prior value: join the in-flight fetch or start one, then wait.
	var fl *flight
	if e.inflight != nil {
		fl = e.inflight
		c.countDedup()
	} else {
		fl = c.startFetch(key, e)
		c.countMiss()
	}
	c.mu.Unlock()

	select {
	case <-fl.done:
	case <-ctx.Done():
		// The fetch keeps running and will populate the cache for the next
		// caller; this caller gives up.
		return rawResult{err: ctx.Err()}
	}

	if fl.err != nil {
		return rawResult{err: fl.err}
	}
	return rawResult{value: fl.value, ok: true}
}

// entry returns the slot for key, creating it if needed. Callers hold mu.
func (c *Cache) entry(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

// startFetch launches a fetch for the entry's current fetcher and returns its
// flight. Callers hold mu.
func (c *Cache) startFetch(key string, e *entry) *flight {
	e.nextSeq++
	seq := e.nextSeq
	fl := &flight{done: make(chan struct{})}
	e.inflight = fl
	fetch := e.fetch

	go func() {
		// Detached from the caller so page navigation does not abort a
		// refresh other subscribers still want.
		value, err := fetch(context.WithoutCancel(context.Background()))
		fl.value = value
		fl.err = err
		c.apply(key, seq, fl)
		close(fl.done)
	}()
	return fl
}

// apply installs a completed fetch into the entry unless a newer request
// already completed. Responses land in completion order; the sequence check
// keeps a slow, old response from overwriting a fresher one.
func (c *Cache) apply(key string, seq uint64, fl *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	if e.inflight == fl {
		e.inflight = nil
	}

	if seq <= e.appliedSeq {
		c.countStaleDropped()
		return
	}
	e.appliedSeq = seq

	if fl.err != nil {
		// Keep the previous value; surface the error alongside it.
		e.err = fl.err
		if c.logger != nil {
			c.logger.Warn("query refresh failed", "key", key, "error", fl.err)
		}
		return
	}
	e.value = fl.value
	e.hasValue = true
	e.err = nil
	e.stale = false
	e.fetchedAt = time.Now()
}

// Invalidate marks every entry whose key equals prefix or lives under
// "prefix/" as stale, and immediately refetches the ones with active
// subscribers. Entries without subscribers refetch lazily on next access.
// A refetch starts even when an older request is still in flight; the newer
// request supersedes it and the sequence check discards the older response
// if it arrives late.
func (c *Cache) Invalidate(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if key != prefix && !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		e.stale = true
		if e.subscribers > 0 && e.fetch != nil {
			c.startFetch(key, e)
		}
	}
	if c.metrics != nil {
		c.metrics.IncrementInvalidations(prefix)
	}
}

// Peek returns the current value for key without triggering any fetch.
func Peek[T any](c *Cache, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	e, ok := c.entries[key]
	if !ok || !e.hasValue {
		return zero, false
	}
	v, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return v, true
}

// Has reports whether key holds a value, regardless of staleness. Controllers
// use it to decide between showing a loading state and showing cached data.
func (c *Cache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return ok && e.hasValue
}

func (c *Cache) countHit() {
	if c.metrics != nil {
		c.metrics.IncrementCacheHits()
	}
}

func (c *Cache) countMiss() {
	if c.metrics != nil {
		c.metrics.IncrementCacheMisses()
	}
}

func (c *Cache) countDedup() {
	if c.metrics != nil {
		c.metrics.IncrementDedupedFetches()
	}
}

func (c *Cache) countStaleDropped() {
	if c.metrics != nil {
		c.metrics.IncrementStaleDropped()
	}
}
