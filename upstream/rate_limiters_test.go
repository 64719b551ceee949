package upstream

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestRateLimiters_OneLimiterPerHost(t *testing.T) {
	limiters := NewRateLimiters()

	a := limiters.LimiterForURL(mustParse(t, "https://api.example.com/v1/a"))
	b := limiters.LimiterForURL(mustParse(t, "https://api.example.com/v1/b"))
	other := limiters.LimiterForURL(mustParse(t, "https://other.example.com/v1/a"))

	require.NotNil(t, a)
	assert.Same(t, a, b, "paths on the same host share one limiter")
	assert.NotSame(t, a, other)
}

func TestRateLimiters_HostRPM(t *testing.T) {
	limiters := NewRateLimiters()
	limiters.SetHostRPM("api.example.com", 120)

	limiter := limiters.LimiterForURL(mustParse(t, "https://api.example.com/v1"))
	require.NotNil(t, limiter)
	assert.InDelta(t, 2.0, float64(limiter.Limit()), 0.001)

	// Changing the budget rebuilds the limiter on next lookup
	limiters.SetHostRPM("api.example.com", 60)
	rebuilt := limiters.LimiterForURL(mustParse(t, "https://api.example.com/v1"))
	assert.NotSame(t, limiter, rebuilt)
	assert.InDelta(t, 1.0, float64(rebuilt.Limit()), 0.001)
}

func TestRateLimiters_NilSafety(t *testing.T) {
	var limiters *RateLimiters
	assert.Nil(t, limiters.LimiterForURL(mustParse(t, "https://api.example.com")))

	limiters = NewRateLimiters()
	assert.Nil(t, limiters.LimiterForURL(nil))
}
