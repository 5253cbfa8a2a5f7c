package musicbrainz

import (
	"sync"
	"time"
)

// RateLimiter spaces requests to honor the MusicBrainz one-per-second
// policy. Scan workers share one client, so waits are serialized under
// the lock.
type RateLimiter struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
}

// NewRateLimiter creates a limiter with the given minimum interval
// between requests.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{interval: interval}
}

// Wait blocks until the interval since the previous request has passed.
func (r *RateLimiter) Wait() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if elapsed := time.Since(r.lastRequest); elapsed < r.interval {
		time.Sleep(r.interval - elapsed)
	}
	r.lastRequest = time.Now()
}
