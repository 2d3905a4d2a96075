package locker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotAcquired means another worker holds the lock; the caller should retry
// with fresh state.
var ErrNotAcquired = errors.New("lock not acquired")

// Locker serializes mutating operations on a logical key, typically
// "timecard:<tutor_id>:<work_date>" or "clock:<tutor_id>".
type Locker interface {
	// Acquire takes the lock or fails immediately with ErrNotAcquired.
	// The returned release function is safe to call exactly once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// MemoryLocker is an in-process Locker for tests and single-node deployments.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}

func (m *MemoryLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.held[key]; ok {
		return nil, ErrNotAcquired
	}
	m.held[key] = struct{}{}

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.held, key)
	}, nil
}
