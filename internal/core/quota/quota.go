// Package quota tracks the process-wide call budget against external
// providers. Each named category (one per provider operation, e.g.
// "directions") is an independent pool that resets on a fixed period.
package quota

import (
	"sync"
	"time"
)

// Tracker gates outbound provider calls against per-category budgets.
//
// Pools are isolated: exhausting one category never affects another.
// Period rollover is computed lazily on access, never by a background
// timer, so the tracker stays correct across idle gaps longer than a
// period. State lives in memory only; it is an admission-control cache,
// not a usage ledger.
type Tracker struct {
	period       time.Duration
	limits       map[string]int
	defaultLimit int
	clock        func() time.Time

	mu    sync.Mutex
	pools map[string]*pool
}

type pool struct {
	mu          sync.Mutex
	remaining   int
	periodStart time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(t *Tracker) { t.clock = clock }
}

// WithDefaultLimit sets the cap applied to categories absent from the
// configured map. Zero disables unknown categories entirely.
func WithDefaultLimit(limit int) Option {
	return func(t *Tracker) { t.defaultLimit = limit }
}

// New returns a Tracker with the given per-category caps and reset period.
// A non-positive period defaults to 24h (daily quotas).
func New(limits map[string]int, period time.Duration, opts ...Option) *Tracker {
	if period <= 0 {
		period = 24 * time.Hour
	}

	t := &Tracker{
		period: period,
		limits: make(map[string]int, len(limits)),
		clock:  func() time.Time { return time.Now().UTC() },
		pools:  make(map[string]*pool, len(limits)),
	}
	for category, limit := range limits {
		if limit > 0 {
			t.limits[category] = limit
		}
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Period returns the reset cadence shared by all pools.
func (t *Tracker) Period() time.Duration { return t.period }

// Limit returns the configured cap for a category.
func (t *Tracker) Limit(category string) int {
	if limit, ok := t.limits[category]; ok {
		return limit
	}
	return t.defaultLimit
}

// TryReserve reserves one unit from the category's pool. It reports false
// without mutating anything when the pool is exhausted; the caller must not
// place the outbound call in that case.
func (t *Tracker) TryReserve(category string) bool {
	p, limit := t.pool(category)
	if limit <= 0 {
		return false
	}

	now := t.clock()

	p.mu.Lock()
	defer p.mu.Unlock()

	t.rollover(p, limit, now)

	if p.remaining <= 0 {
		return false
	}
	p.remaining--
	return true
}

// Release returns one reserved unit to the category's pool, capped at the
// configured maximum. It is intended for reservations whose outbound request
// was never handed to the transport; a call that reached the provider keeps
// its unit even if it ultimately failed, since the true billed outcome is
// unknown.
func (t *Tracker) Release(category string) {
	p, limit := t.pool(category)
	if limit <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t.rollover(p, limit, t.clock())

	if p.remaining < limit {
		p.remaining++
	}
}

// Remaining reports the units left in the category's current period.
func (t *Tracker) Remaining(category string) int {
	p, limit := t.pool(category)
	if limit <= 0 {
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	t.rollover(p, limit, t.clock())
	return p.remaining
}

// pool returns the category's pool, creating it lazily, along with its cap.
func (t *Tracker) pool(category string) (*pool, int) {
	limit, ok := t.limits[category]
	if !ok {
		limit = t.defaultLimit
	}
	if limit <= 0 {
		return nil, 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.pools[category]
	if !ok {
		p = &pool{remaining: limit, periodStart: t.clock()}
		t.pools[category] = p
	}
	return p, limit
}

// rollover advances the pool into the period containing now and restores the
// cap. Called with the pool lock held. Multi-period idle gaps advance the
// period start to the current period, not just the next one.
func (t *Tracker) rollover(p *pool, limit int, now time.Time) {
	elapsed := now.Sub(p.periodStart)
	if elapsed < t.period {
		return
	}

	periods := elapsed / t.period
	p.periodStart = p.periodStart.Add(periods * t.period)
	p.remaining = limit
}
