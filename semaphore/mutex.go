// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"context"
	"sync"
)

var _ sync.Locker = (*Mutex)(nil)

// Mutex is a binary semaphore: a Weighted with an initial value of 1 where every request has a
// weight of 1.  Waiters are granted the lock in the order they asked for it.
type Mutex struct {
	s *Weighted
}

// NewMutex constructs an unlocked Mutex.  The options are the same as for NewWeighted.
func NewMutex(o ...Option) *Mutex {
	return &Mutex{s: NewWeighted(1, o...)}
}

// Acquire blocks until the lock is held or the request is canceled.  The returned Releaser
// unlocks the mutex.
func (m *Mutex) Acquire() (*Releaser, error) {
	g, err := m.s.Acquire(1)
	return g.Releaser(), err
}

// AcquireCtx is like Acquire, but gives up when ctx is done.
func (m *Mutex) AcquireCtx(ctx context.Context) (*Releaser, error) {
	g, err := m.s.AcquireCtx(ctx, 1)
	return g.Releaser(), err
}

// TryLock tries to lock m and reports whether it succeeded.
func (m *Mutex) TryLock() bool {
	_, ok := m.s.TryAcquire(1)
	return ok
}

// Lock locks m, blocking until it is available.  A Cancel does not make Lock return without the
// lock, since sync.Locker has no way to report it.  Use Acquire to observe cancellation.
func (m *Mutex) Lock() {
	for {
		if _, err := m.s.Acquire(1); err == nil {
			return
		}
	}
}

// Unlock is the same as Release.
func (m *Mutex) Unlock() {
	m.Release()
}

// RunExclusive runs f while holding the lock, unlocking on every exit path.
func (m *Mutex) RunExclusive(ctx context.Context, f func() error) error {
	return m.s.RunExclusive(ctx, 1, func(int) error {
		return f()
	})
}

// IsLocked tests if the mutex is currently held.
func (m *Mutex) IsLocked() bool {
	return m.s.IsLocked()
}

// Unlocked returns a channel that is closed the next time the mutex is observed unlocked.
func (m *Mutex) Unlocked() <-chan struct{} {
	ch, _ := m.s.Unlocked(1)
	return ch
}

// WaitForUnlock blocks until the mutex is observed unlocked or ctx is done.
func (m *Mutex) WaitForUnlock(ctx context.Context) error {
	return m.s.WaitForUnlock(ctx, 1)
}

// Release unlocks the mutex.  Unlike a semaphore's Release, this is a no-op when the mutex is not
// locked, so repeated calls cannot raise the value past 1.  It does not consume the holder's
// Releaser, though: firing that Releaser after this call still adds 1, leaving a value of 2.
func (m *Mutex) Release() {
	m.s.releaseWhileLocked(1)
}

// Cancel fails every goroutine queued in Acquire or AcquireCtx with the cancellation error.
func (m *Mutex) Cancel() {
	m.s.Cancel()
}
