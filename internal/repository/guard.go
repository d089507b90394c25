package repository

import "context"

// WriteGuard serializes read-modify-write cycles within one process. It
// offers no exclusion between processes sharing the same blob store; use
// conditional writes for that.
type WriteGuard struct {
	ch chan struct{}
}

// NewWriteGuard creates an unlocked guard.
func NewWriteGuard() *WriteGuard {
	return &WriteGuard{ch: make(chan struct{}, 1)}
}

// Lock blocks until the guard is free or ctx is done.
func (g *WriteGuard) Lock(ctx context.Context) error {
	select {
	case g.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLock acquires the guard only if it is free.
func (g *WriteGuard) TryLock() bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases the guard. Calling it on an unlocked guard panics.
func (g *WriteGuard) Unlock() {
	select {
	case <-g.ch:
	default:
		panic("repository: unlock of unlocked write guard")
	}
}
