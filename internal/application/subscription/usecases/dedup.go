package usecases

import (
	"sync"
	"time"
)

// boundedSet remembers IDs with a hard size cap. On overflow the whole set
// is cleared instead of evicting piecemeal: an occasional duplicate message
// after a clear is acceptable, unbounded growth is not.
type boundedSet struct {
	mu  sync.Mutex
	max int
	ids map[int64]struct{}
}

func newBoundedSet(max int) *boundedSet {
	if max <= 0 {
		max = 1
	}
	return &boundedSet{
		max: max,
		ids: make(map[int64]struct{}),
	}
}

// Has reports whether the ID was recorded.
func (s *boundedSet) Has(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.ids[id]
	return ok
}

// Record remembers the ID, wiping the set first if it is at capacity.
// Recording is separate from Has so a failed delivery is not suppressed
// on the next pass.
func (s *boundedSet) Record(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; ok {
		return
	}
	if len(s.ids) >= s.max {
		s.ids = make(map[int64]struct{})
	}
	s.ids[id] = struct{}{}
}

// cooldownTracker throttles per-ID processing to once per interval, with
// the same full-clear-on-overflow bound as boundedSet.
type cooldownTracker struct {
	mu       sync.Mutex
	max      int
	interval time.Duration
	lastSeen map[int64]time.Time
}

func newCooldownTracker(max int, interval time.Duration) *cooldownTracker {
	if max <= 0 {
		max = 1
	}
	return &cooldownTracker{
		max:      max,
		interval: interval,
		lastSeen: make(map[int64]time.Time),
	}
}

// Throttled reports whether the ID was handled inside the cooldown
// interval, stamping it otherwise.
func (c *cooldownTracker) Throttled(id int64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if last, ok := c.lastSeen[id]; ok && now.Sub(last) < c.interval {
		return true
	}
	if len(c.lastSeen) >= c.max {
		c.lastSeen = make(map[int64]time.Time)
	}
	c.lastSeen[id] = now
	return false
}
