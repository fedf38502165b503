package ratelimit

import (
	"testing"
	"time"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	limiter := NewMemoryLimiter()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("actor", 3, time.Hour) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if limiter.Allow("actor", 3, time.Hour) {
		t.Error("fourth request should be denied")
	}

	if !limiter.Allow("other-actor", 3, time.Hour) {
		t.Error("a different key should be unaffected")
	}
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	limiter := NewMemoryLimiter()
	window := 50 * time.Millisecond

	limiter.Allow("actor", 1, window)
	if limiter.Allow("actor", 1, window) {
		t.Error("should be limited inside the window")
	}

	time.Sleep(60 * time.Millisecond)

	if !limiter.Allow("actor", 1, window) {
		t.Error("should be allowed again after the window expires")
	}
}

func TestMemoryLimiter_RetryAfter(t *testing.T) {
	limiter := NewMemoryLimiter()

	if r := limiter.RetryAfter("actor"); r != 0 {
		t.Errorf("RetryAfter = %v before any event, want 0", r)
	}

	limiter.Allow("actor", 5, time.Hour)
	r := limiter.RetryAfter("actor")
	if r <= 0 || r > time.Hour {
		t.Errorf("RetryAfter = %v, want in (0, 1h]", r)
	}
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	limiter := NewMemoryLimiter()

	limiter.Allow("short", 1, 10*time.Millisecond)
	limiter.Allow("long", 1, time.Hour)

	time.Sleep(20 * time.Millisecond)
	limiter.Sweep()

	if _, ok := limiter.windows["short"]; ok {
		t.Error("expired window should be swept")
	}
	if _, ok := limiter.windows["long"]; !ok {
		t.Error("active window should survive the sweep")
	}
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	limiter := NewMemoryLimiter()
	limit := 100
	results := make(chan bool, limit*2)

	for i := 0; i < limit*2; i++ {
		go func() {
			results <- limiter.Allow("busy", limit, time.Hour)
		}()
	}

	allowed := 0
	for i := 0; i < limit*2; i++ {
		if <-results {
			allowed++
		}
	}

	if allowed != limit {
		t.Errorf("allowed %d concurrent events, want exactly %d", allowed, limit)
	}
}
