package upstream

import (
	"math"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Default requests per minute for hosts without an explicit setting
const defaultRPM = 30

// RateLimiters hands out one token-bucket limiter per upstream host.
// Both report requests and the background rate refresh share the same
// limiter for a host, so the upstream budget is respected globally.
type RateLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	hostRPM  map[string]int
}

// NewRateLimiters creates an empty limiter registry
func NewRateLimiters() *RateLimiters {
	return &RateLimiters{
		limiters: make(map[string]*rate.Limiter),
		hostRPM:  make(map[string]int),
	}
}

// SetHostRPM configures the per-minute budget for a host. Existing
// limiters for the host are rebuilt on the next lookup.
func (r *RateLimiters) SetHostRPM(host string, rpm int) {
	if rpm <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hostRPM[host] = rpm
	delete(r.limiters, host)
}

// LimiterForURL returns the limiter for the URL's host, creating it on
// first use.
func (r *RateLimiters) LimiterForURL(u *url.URL) *rate.Limiter {
	if r == nil || u == nil {
		return nil
	}

	host := u.Hostname()
	if host == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if limiter, ok := r.limiters[host]; ok {
		return limiter
	}

	rpm := r.hostRPM[host]
	if rpm <= 0 {
		rpm = defaultRPM
	}
	limit := rate.Limit(float64(rpm) / 60.0)
	limiter := rate.NewLimiter(limit, burstForLimit(limit))
	r.limiters[host] = limiter
	return limiter
}

func burstForLimit(limit rate.Limit) int {
	if limit <= 1.0 {
		return 1
	}
	return int(math.Ceil(float64(limit)))
}
