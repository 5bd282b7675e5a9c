package ratelimit

import (
	"context"
	"sync"
	"time"
)

// pruneEvery is how many Allow calls pass between sweeps of expired entries.
const pruneEvery = 256

type window struct {
	count   int
	resetAt time.Time
}

// Memory is a process-local limiter. Counts are lost on restart and are not
// shared between instances.
type Memory struct {
	policy Policy
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*window
	calls   int
}

// NewMemory creates an in-process limiter.
func NewMemory(p Policy) *Memory {
	return &Memory{
		policy:  p.withDefaults(),
		now:     time.Now,
		entries: make(map[string]*window),
	}
}

// WithClock replaces the time source. Used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

// Allow records an attempt for identity and reports whether it is within
// the window's budget. Denied attempts do not consume budget.
func (m *Memory) Allow(_ context.Context, identity string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.calls%pruneEvery == 0 {
		m.prune(now)
	}

	w, ok := m.entries[identity]
	if !ok || !now.Before(w.resetAt) {
		m.entries[identity] = &window{count: 1, resetAt: now.Add(m.policy.Window)}
		return true, nil
	}
	if w.count >= m.policy.MaxRequests {
		return false, nil
	}
	w.count++
	return true, nil
}

// Len returns the number of tracked identities.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory) prune(now time.Time) {
	for id, w := range m.entries {
		if !now.Before(w.resetAt) {
			delete(m.entries, id)
		}
	}
}
