// Package admission implements per-client admission control for inbound
// requests: a fixed-window counter keyed by caller identity, with lazy
// window rollover and lazy idle-entry cleanup.
package admission

import (
	"sync"
	"time"
)

// Result is a single admission decision.
//
// Remaining and RetryAfter are advisory metadata for the transport layer
// (X-RateLimit-* and Retry-After headers); the decision itself is Admitted.
type Result struct {
	Admitted   bool
	Remaining  int
	Limit      int
	Window     time.Duration
	RetryAfter time.Duration
}

// Controller decides per-request admission using a fixed time window per
// caller identity. Identities are created lazily on first sight and dropped
// after sitting idle beyond the retention horizon. All methods are safe for
// concurrent use; decisions for the same identity are serialized, decisions
// for distinct identities do not contend beyond the entry lookup.
type Controller struct {
	capacity  int
	window    time.Duration
	retention time.Duration
	clock     func() time.Time

	mu        sync.Mutex
	entries   map[string]*entry
	nextSweep time.Time
}

type entry struct {
	mu          sync.Mutex
	count       int
	windowStart time.Time

	// lastSeen is read and written only under the Controller map lock.
	lastSeen time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithRetention overrides how long an idle identity is kept before its
// state is dropped.
func WithRetention(d time.Duration) Option {
	return func(c *Controller) { c.retention = d }
}

// New returns a Controller granting capacity admissions per window for each
// identity. Capacity and window must be positive.
func New(capacity int, window time.Duration, opts ...Option) *Controller {
	if capacity < 1 {
		capacity = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	c := &Controller{
		capacity:  capacity,
		window:    window,
		retention: time.Hour,
		clock:     func() time.Time { return time.Now().UTC() },
		entries:   make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.nextSweep = c.clock().Add(c.retention)
	return c
}

// Limit returns the per-identity capacity.
func (c *Controller) Limit() int { return c.capacity }

// Window returns the accounting window length.
func (c *Controller) Window() time.Duration { return c.window }

// Allow records one request for identity and decides whether to admit it.
//
// Within a window the decision sequence is monotonic: once an identity is
// rejected it stays rejected until the window rolls over. An identity never
// seen before, or one swept for idleness, starts a fresh window.
func (c *Controller) Allow(identity string) Result {
	now := c.clock()

	c.mu.Lock()
	c.maybeSweep(now)
	e, ok := c.entries[identity]
	if !ok {
		e = &entry{windowStart: now}
		c.entries[identity] = e
	}
	e.lastSeen = now
	c.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if now.Sub(e.windowStart) >= c.window {
		e.windowStart = now
		e.count = 0
	}

	if e.count < c.capacity {
		e.count++
		return Result{
			Admitted:  true,
			Remaining: c.capacity - e.count,
			Limit:     c.capacity,
			Window:    c.window,
		}
	}

	return Result{
		Limit:      c.capacity,
		Window:     c.window,
		RetryAfter: e.windowStart.Add(c.window).Sub(now),
	}
}

// Len reports the number of tracked identities.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// maybeSweep drops idle entries. Called with the map lock held; the sweep is
// amortized over Allow calls instead of running on a timer.
func (c *Controller) maybeSweep(now time.Time) {
	if now.Before(c.nextSweep) {
		return
	}

	cutoff := now.Add(-c.retention)
	for identity, e := range c.entries {
		if e.lastSeen.Before(cutoff) {
			delete(c.entries, identity)
		}
	}
	c.nextSweep = now.Add(c.retention)
}
