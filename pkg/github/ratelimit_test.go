package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/chainguard-dev/clog/slogtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitTransport_TracksHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderXRateLimitRemaining, "42")
		w.Header().Set(HeaderXRateLimitReset, "1700000000")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	transport := NewRateLimitTransport(nil, nil)
	client := &http.Client{Transport: transport}

	req, err := http.NewRequestWithContext(slogtest.TestContextWithLogger(t), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	stats := transport.GetStats()
	assert.Equal(t, int64(1), stats.Requests)
	assert.Equal(t, 42, stats.RemainingRequests)
	assert.Equal(t, time.Unix(1700000000, 0), stats.ResetTime)
}

func TestRateLimitTransport_DoesNotRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set(HeaderXRateLimitRemaining, "0")
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRateLimitTransport(http.DefaultTransport, DefaultRateLimiterConfig())}

	req, err := http.NewRequestWithContext(slogtest.TestContextWithLogger(t), http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRateLimitTransport_Paces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := &http.Client{Transport: NewRateLimitTransport(nil, &RateLimiterConfig{RequestsPerSecond: 20, Burst: 1})}

	start := time.Now()
	for i := 0; i < 3; i++ {
		req, err := http.NewRequestWithContext(slogtest.TestContextWithLogger(t), http.MethodGet, server.URL, nil)
		require.NoError(t, err)
		resp, err := client.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
	}

	// Two waits of 50ms each after the initial burst
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimitTransport_HonoursDeadline(t *testing.T) {
	transport := NewRateLimitTransport(nil, &RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 1})
	client := &http.Client{Transport: transport}
	require.True(t, transport.limiter.Allow())

	ctx, cancel := context.WithTimeout(slogtest.TestContextWithLogger(t), 50*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://127.0.0.1:0", nil)
	require.NoError(t, err)

	start := time.Now()
	_, err = client.Do(req)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
}
