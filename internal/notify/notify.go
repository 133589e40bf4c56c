// Package notify holds the transient notification feed behind the
// dashboard's toast area. Notices auto-expire; a failure never leaves a
// sticky error banner, the user re-triggers the action instead.
package notify

import (
	"sync"
	"time"
)

// Level classifies a notice for rendering.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one transient message.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 5 * time.Second

// Feed collects notices and drops them once expired.
type Feed struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	notices []Notice
}

// Option configures a Feed.
type Option func(*Feed)

// WithTTL overrides the notice lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(f *Feed) {
		f.ttl = ttl
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Feed) {
		f.now = now
	}
}

// NewFeed creates an empty feed.
func NewFeed(opts ...Option) *Feed {
	f := &Feed{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Success records a success notice.
func (f *Feed) Success(msg string) {
	f.add(LevelSuccess, msg)
}

// Error records an error notice.
func (f *Feed) Error(msg string) {
	f.add(LevelError, msg)
}

func (f *Feed) add(level Level, msg string) {
	now := f.now()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune(now)
	f.notices = append(f.notices, Notice{
		Level:     level,
		Message:   msg,
		CreatedAt: now,
		ExpiresAt: now.Add(f.ttl),
	})
}

// Active returns the notices that have not expired yet, oldest first.
func (f *Feed) Active() []Notice {
	now := f.now()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prune(now)
	out := make([]Notice, len(f.notices))
	copy(out, f.notices)
	return out
}

// prune drops expired notices. Callers hold mu.
func (f *Feed) prune(now time.Time) {
	kept := f.notices[:0]
	for _, n := range f.notices {
		if n.ExpiresAt.After(now) {
			kept = append(kept, n)
		}
	}
	f.notices = kept
}
