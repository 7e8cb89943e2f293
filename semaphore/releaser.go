// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import "sync/atomic"

// Releaser is a one-shot capability that returns the weight of a single grant to its semaphore.
// Only the first call to Release has any effect.  A nil Releaser is valid and does nothing.
type Releaser struct {
	s      *Weighted
	weight int
	fired  atomic.Bool
}

func newReleaser(s *Weighted, weight int) *Releaser {
	return &Releaser{s: s, weight: weight}
}

// Release returns this releaser's weight to the semaphore and dispatches any requests
// that can now be granted.  Subsequent calls are no-ops.
func (r *Releaser) Release() {
	if r != nil && r.fired.CompareAndSwap(false, true) {
		r.s.release(r.weight, true)
	}
}

// Weight is the number of resources this releaser returns.
func (r *Releaser) Weight() int {
	if r != nil {
		return r.weight
	}

	return 0
}

// Grant is the immutable result of a successful acquisition.  It pairs the semaphore's value
// as it was immediately before this grant was subtracted with the Releaser for the grant.
//
// The zero Grant holds no resources.  Its Release method is a no-op.
type Grant struct {
	value    int
	releaser *Releaser
}

// Value is the semaphore's value just before this grant's weight was subtracted.
func (g Grant) Value() int {
	return g.value
}

// Releaser returns the one-shot Releaser for this grant.
func (g Grant) Releaser() *Releaser {
	return g.releaser
}

// Release is shorthand for g.Releaser().Release().
func (g Grant) Release() {
	g.releaser.Release()
}
