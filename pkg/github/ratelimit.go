package github

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/chainguard-dev/clog"
	"golang.org/x/time/rate"
)

// GitHub rate limit header names, in Go canonical form
const (
	HeaderXRateLimitRemaining = "X-Ratelimit-Remaining"
	HeaderXRateLimitReset     = "X-Ratelimit-Reset"
)

// RateLimiterConfig configures the rate limiting transport
type RateLimiterConfig struct {
	// RequestsPerSecond caps the request rate; zero or less means unlimited
	RequestsPerSecond float64

	// Burst is the number of requests allowed at once
	Burst int

	// MinRemainingRequests is the threshold below which a warning is logged
	MinRemainingRequests int
}

// DefaultRateLimiterConfig returns a default rate limiter configuration
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		RequestsPerSecond:    0,
		Burst:                1,
		MinRemainingRequests: 100,
	}
}

// RateLimiterStats provides statistics about rate limiter usage
type RateLimiterStats struct {
	Requests          int64     `json:"requests"`
	RemainingRequests int       `json:"remaining_requests"`
	ResetTime         time.Time `json:"reset_time"`
}

// RateLimitTransport wraps an http.RoundTripper, spacing requests with a
// token bucket and tracking the rate limit headers GitHub returns. It never
// retries: a limited response is handed back to the caller as is.
type RateLimitTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	config  *RateLimiterConfig

	mu     sync.Mutex
	stats  RateLimiterStats
	warned bool
}

// NewRateLimitTransport creates a rate limiting transport around base
func NewRateLimitTransport(base http.RoundTripper, config *RateLimiterConfig) *RateLimitTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if config == nil {
		config = DefaultRateLimiterConfig()
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitTransport{
		base:    base,
		limiter: rate.NewLimiter(limit, burst),
		config:  config,
		stats:   RateLimiterStats{RemainingRequests: -1},
	}
}

// RoundTrip implements http.RoundTripper
func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	t.observe(req, resp)
	return resp, nil
}

func (t *RateLimitTransport) observe(req *http.Request, resp *http.Response) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats.Requests++

	v := resp.Header.Get(HeaderXRateLimitRemaining)
	if v == "" {
		return
	}
	remaining, err := strconv.Atoi(v)
	if err != nil {
		return
	}
	t.stats.RemainingRequests = remaining

	if v := resp.Header.Get(HeaderXRateLimitReset); v != "" {
		if epoch, err := strconv.ParseInt(v, 10, 64); err == nil {
			t.stats.ResetTime = time.Unix(epoch, 0)
		}
	}

	if remaining < t.config.MinRemainingRequests && !t.warned {
		t.warned = true
		clog.FromContext(req.Context()).Warnf("GitHub API rate limit is running low: %d requests remaining until %v",
			remaining, t.stats.ResetTime)
	}
}

// GetStats returns current rate limiter statistics
func (t *RateLimitTransport) GetStats() RateLimiterStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
