// Package ratelimit implements the process-local fixed-window counter that gates
// contact-form submissions per client identifier.
//
// State is per process: two instances behind a load balancer each enforce the
// limit independently, and all counters are lost on restart.
package ratelimit

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultSweepThreshold is the store size above which expired windows are purged
const DefaultSweepThreshold = 1000

// Policy is a request budget per identifier per window
type Policy struct {
	Limit  int
	Window time.Duration
}

// ContactPolicy is the fixed budget for contact-form submissions
var ContactPolicy = Policy{Limit: 5, Window: time.Minute}

// Entry is the counter for one identifier
type Entry struct {
	Count   int
	ResetAt time.Time
}

// Info is a read-only view of an identifier's budget
type Info struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	// RetryAfter is the time left until ResetAt, measured on the store's clock
	RetryAfter time.Duration
}

// Store holds one Entry per identifier. The mutex makes check-then-increment
// atomic, so concurrent requests sharing an identifier cannot both take the last slot.
type Store struct {
	mu             sync.Mutex
	entries        *gocache.Cache
	now            func() time.Time
	sweepThreshold int
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSweepThreshold overrides DefaultSweepThreshold
func WithSweepThreshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.sweepThreshold = n
		}
	}
}

// NewStore creates an empty store. No janitor goroutine is started; expired
// entries are purged opportunistically from Allow.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries:        gocache.New(gocache.NoExpiration, 0),
		now:            time.Now,
		sweepThreshold: DefaultSweepThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Allow reports whether identifier may make another request under limit per window,
// counting the request if so. A denied request is not counted.
func (s *Store) Allow(identifier string, limit int, window time.Duration) bool {
	allowed, _ := s.AllowWithInfo(identifier, limit, window)
	return allowed
}

// AllowWithInfo is Allow plus the budget left after this request, read under the same lock
func (s *Store) AllowWithInfo(identifier string, limit int, window time.Duration) (bool, Info) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if s.entries.ItemCount() > s.sweepThreshold {
		s.sweepLocked(now)
	}

	allowed := true
	entry, ok := s.lookup(identifier)
	switch {
	case !ok || entry.ResetAt.Before(now):
		s.entries.Set(identifier, &Entry{Count: 1, ResetAt: now.Add(window)}, window)
	case entry.Count >= limit:
		allowed = false
	default:
		entry.Count++
	}

	return allowed, s.infoLocked(identifier, limit, window, now)
}

// Status returns the remaining budget without counting a request
func (s *Store) Status(identifier string, limit int, window time.Duration) Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked(identifier, limit, window, s.now())
}

func (s *Store) infoLocked(identifier string, limit int, window time.Duration, now time.Time) Info {
	entry, ok := s.lookup(identifier)
	if !ok || entry.ResetAt.Before(now) {
		return Info{Limit: limit, Remaining: limit, ResetAt: now.Add(window), RetryAfter: window}
	}

	return Info{
		Limit:      limit,
		Remaining:  max(0, limit-entry.Count),
		ResetAt:    entry.ResetAt,
		RetryAfter: entry.ResetAt.Sub(now),
	}
}

// Len returns the number of tracked identifiers, including expired ones not yet swept
func (s *Store) Len() int {
	return s.entries.ItemCount()
}

// Reset drops every entry
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Flush()
}

func (s *Store) lookup(identifier string) (*Entry, bool) {
	v, ok := s.entries.Get(identifier)
	if !ok {
		return nil, false
	}
	entry, ok := v.(*Entry)
	return entry, ok
}

// sweepLocked removes entries whose window already elapsed. Caller holds s.mu.
func (s *Store) sweepLocked(now time.Time) {
	s.entries.DeleteExpired()
	for key, item := range s.entries.Items() {
		if entry, ok := item.Object.(*Entry); ok && entry.ResetAt.Before(now) {
			s.entries.Delete(key)
		}
	}
}
