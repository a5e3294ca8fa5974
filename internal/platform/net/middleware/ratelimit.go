package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	perr "bear/internal/platform/errors"
	pnet "bear/internal/platform/net"
	phttp "bear/internal/platform/net/http"

	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 3 * time.Minute
	limiterIdleTTL    = 5 * time.Minute
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles callers by key, usually the client ip
// it holds no identity data
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter starts a limiter whose sweeper stops with ctx
func NewRateLimiter(ctx context.Context, r rate.Limit, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		limiters: make(map[string]*keyedLimiter),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
	go rl.sweepLoop(ctx)
	return rl
}

// Allow reports whether key may proceed now and spends a token if so
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).AllowN(rl.now(), 1)
}

// RetryAfter is the whole number of seconds until one more token is available
func (rl *RateLimiter) RetryAfter() int {
	if rl.rate <= 0 || rl.rate == rate.Inf {
		return 1
	}
	return max(int(math.Ceil(1.0/float64(rl.rate))), 1)
}

// Len returns the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if l, ok := rl.limiters[key]; ok {
		l.lastSeen = now
		return l.limiter
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &keyedLimiter{limiter: l, lastSeen: now}
	return l
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	t := time.NewTicker(limiterSweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			rl.sweep(limiterIdleTTL)
		}
	}
}

// sweep drops keys idle for longer than ttl
func (rl *RateLimiter) sweep(ttl time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := rl.now().Add(-ttl)
	for k, l := range rl.limiters {
		if l.lastSeen.Before(cutoff) {
			delete(rl.limiters, k)
		}
	}
}

// Limit throttles by client ip; over the limit reject runs instead of next
// a nil reject writes a 429 envelope
func (rl *RateLimiter) Limit(reject http.Handler) func(http.Handler) http.Handler {
	if reject == nil {
		reject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			phttp.RespondError(w, r, perr.TooManyRequestsf("rate limit exceeded"))
		})
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.Allow(pnet.ClientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter()))
				reject.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
