package ratelimit

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter returns a limiter with no background sweep and a controllable clock.
func newTestLimiter(cfg *Config) (*Limiter, *time.Time) {
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("1.2.3.4", "/sessions/x", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("1.2.3.4", "/sessions/x", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, info.RetryAfter, 12*time.Second)
}

func TestLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	// one token per second, burst 60
	for i := 0; i < 60; i++ {
		allowed, _ := l.Allow("c", "/x", "GET")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c", "/x", "GET")
	require.False(t, allowed)

	*now = now.Add(1100 * time.Millisecond)
	allowed, _ = l.Allow("c", "/x", "GET")
	assert.True(t, allowed)

	allowed, _ = l.Allow("c", "/x", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})

	allowed, _ := l.Allow("a", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/x", "GET")
	assert.False(t, allowed)

	allowed, _ = l.Allow("b", "/x", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/y", "GET")
	assert.True(t, allowed, "different endpoint has its own bucket")
}

func TestLimiter_AllowAndBlockLists(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Allowlist:     map[string]bool{"10.0.0.1": true},
		Blocklist:     map[string]bool{"10.0.0.2": true},
	})

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/x", "GET")
		assert.True(t, allowed)
	}

	allowed, info := l.Allow("10.0.0.2", "/x", "GET")
	assert.False(t, allowed)
	assert.Zero(t, info.Limit)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: false, DefaultLimit: 1, DefaultWindow: time.Minute})
	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("c", "/resumes", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	cfg := DefaultConfig()
	l, _ := newTestLimiter(cfg)

	// POST /resumes allows a burst of 5
	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("c", "/resumes", "POST")
		require.True(t, allowed)
		assert.Equal(t, 30, info.Limit)
	}
	allowed, _ := l.Allow("c", "/resumes", "POST")
	assert.False(t, allowed)

	// session writes match by prefix
	_, info := l.Allow("c", "/sessions/abc/content", "PUT")
	assert.Equal(t, 100, info.Limit)

	// health is unlimited
	for i := 0; i < 2000; i++ {
		allowed, _ := l.Allow("c", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})

	var allowedCount atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/x", "GET"); ok {
				allowedCount.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowedCount.Load())
}

func TestLimiter_Sweep(t *testing.T) {
	l, now := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute, IdleTTL: time.Hour})

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/x", "GET")
	}
	*now = now.Add(30 * time.Minute)
	l.Allow("client-0", "/x", "GET")

	*now = now.Add(45 * time.Minute)
	assert.Equal(t, 2, l.sweep())

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "client-0:/x:GET")
}

func TestNewLimiter_NilConfigAndStop(t *testing.T) {
	l := NewLimiter(nil)
	require.NotNil(t, l)
	assert.True(t, l.config.Enabled)

	l.Stop()
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantPath     string
		wantNil      bool
	}{
		{"/resumes", "POST", "/resumes", false},
		{"/resumes/parse", "POST", "/resumes/parse", false},
		{"/sessions/123/reset", "POST", "/sessions/", false},
		{"/sessions/123", "DELETE", "/sessions/", false},
		{"/sessions/123", "GET", "", true},
		{"/resumes", "GET", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPath, got.Path)
		})
	}

	health := MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, health)
	assert.Zero(t, health.Limit)
}

func TestLoadConfigFrom(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":  "42",
		"RATE_LIMIT_DEFAULT_WINDOW": "30s",
		"RATE_LIMIT_ALLOWLIST":      "10.0.0.1, 10.0.0.2",
		"RATE_LIMIT_UPLOAD_LIMIT":   "7",
		"RATE_LIMIT_IDLE_TTL":       "bogus",
	}
	cfg := LoadConfigFrom(func(k string) string { return env[k] })

	assert.True(t, cfg.Enabled)
	assert.Equal(t, 42, cfg.DefaultLimit)
	assert.Equal(t, 30*time.Second, cfg.DefaultWindow)
	assert.Equal(t, time.Hour, cfg.IdleTTL, "malformed values keep the default")
	assert.Equal(t, map[string]bool{"10.0.0.1": true, "10.0.0.2": true}, cfg.Allowlist)
	assert.Empty(t, cfg.Blocklist)
	assert.Equal(t, 7, MatchEndpoint("/resumes", "POST", cfg.EndpointConfigs).Limit)
}

func TestLoadConfigFrom_Disabled(t *testing.T) {
	cfg := LoadConfigFrom(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	assert.False(t, cfg.Enabled)
}
