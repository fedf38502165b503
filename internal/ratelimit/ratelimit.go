package ratelimit

import (
	"sync"
	"time"
)

// MemoryLimiter is a fixed-window in-memory counter keyed by actor. It backs
// the vote-cast ceiling, where the event rows themselves are not countable
// (a toggle-off deletes the vote row).
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		windows: make(map[string]*window),
	}
}

// Allow records one event for key and reports whether it fit under limit
// within the current window. A fresh window opens once the old one expires,
// so a blocked actor who waits is always unblocked.
func (l *MemoryLimiter) Allow(key string, limit int, size time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &window{count: 1, resetAt: now.Add(size)}
		return true
	}

	if w.count >= limit {
		return false
	}
	w.count++
	return true
}

// RetryAfter reports how long until the key's window resets; zero when the
// key is not currently limited by an open window.
func (l *MemoryLimiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return 0
	}
	remaining := time.Until(w.resetAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Sweep drops expired windows. Call it periodically; the map otherwise grows
// with every actor ever seen.
func (l *MemoryLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for key, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, key)
		}
	}
}

// StartSweeper runs Sweep on a ticker in the background.
func (l *MemoryLimiter) StartSweeper(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			l.Sweep()
		}
	}()
}
