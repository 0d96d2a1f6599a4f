package infrastructure

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// VisitorRateLimiter keeps one token bucket per chat visitor.
type VisitorRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*visitorBucket
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type visitorBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewVisitorRateLimiter allows perMinute messages per visitor with the given
// burst. Idle buckets are dropped by a background sweep until Close.
func NewVisitorRateLimiter(perMinute, burst int) *VisitorRateLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	rl := &VisitorRateLimiter{
		buckets: make(map[string]*visitorBucket),
		rate:    rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go rl.cleanup(5 * time.Minute)

	return rl
}

// Allow consumes one token for the visitor if available.
func (rl *VisitorRateLimiter) Allow(visitorID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, exists := rl.buckets[visitorID]
	if !exists {
		bucket = &visitorBucket{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.buckets[visitorID] = bucket
	}
	bucket.lastSeen = now
	return bucket.limiter.AllowN(now, 1)
}

// WaitTime returns how long the visitor has to wait for the next message.
func (rl *VisitorRateLimiter) WaitTime(visitorID string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	bucket, exists := rl.buckets[visitorID]
	if !exists {
		return 0
	}
	now := time.Now()
	r := bucket.limiter.ReserveN(now, 1)
	defer r.CancelAt(now)
	return r.DelayFrom(now)
}

// Active returns the number of tracked visitors.
func (rl *VisitorRateLimiter) Active() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func (rl *VisitorRateLimiter) sweep(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for id, bucket := range rl.buckets {
		if now.Sub(bucket.lastSeen) > rl.idleTTL {
			delete(rl.buckets, id)
		}
	}
}

func (rl *VisitorRateLimiter) cleanup(every time.Duration) {
	defer close(rl.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.sweep(now)
		}
	}
}

// Close stops the background sweep.
func (rl *VisitorRateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}
