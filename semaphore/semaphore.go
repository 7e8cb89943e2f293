// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xmidt-org/locks/clock"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Worker is the function run by RunExclusive while the semaphore's resources are held.
// It receives the semaphore's value as it was just before the grant.
type Worker func(value int) error

// Weighted is a weighted counting semaphore.  Each acquisition requests some positive weight,
// and the semaphore's value is reduced by that weight until the corresponding Releaser fires.
//
// Pending requests are queued per weight, oldest first.  Whenever the value or the queues change,
// the semaphore grants the largest queued weight that fits into the current value, then looks
// again with whatever value remains.  Within a single weight, grants are strictly FIFO.  Across
// weights they are not: a later, larger request can be served before an earlier, smaller one.
//
// A Weighted must not be copied after first use.
type Weighted struct {
	lock  sync.Mutex
	value int

	// queues holds only nonempty lists of *Pending, keyed by weight
	queues  map[int]*list.List
	pending int

	// granted is the weight handed out by grants and not yet returned through a Releaser
	// or a guarded Mutex release
	granted int

	// waiters holds unlock notifications, keyed by weight
	waiters map[int][]chan struct{}

	cancelErr error
	timeout   time.Duration
	logger    *zap.Logger
	clock     clock.Interface
	measures  Measures
}

// NewWeighted constructs a semaphore with the given initial value.  Any value is legal.  A value
// that is zero or negative produces a semaphore that starts out locked.
func NewWeighted(value int, o ...Option) *Weighted {
	s := &Weighted{
		value:   value,
		queues:  make(map[int]*list.List),
		waiters: make(map[int][]chan struct{}),
	}

	for _, f := range append(defaultOptions(), o...) {
		f(s)
	}

	s.updateGauges()
	return s
}

// Request queues a request for weight resources and runs a dispatch pass.  If the request can be
// granted immediately, the returned Pending is already complete when Request returns.
func (s *Weighted) Request(weight int) (*Pending, error) {
	if err := checkWeight(weight); err != nil {
		return nil, err
	}

	p := newPending(s, weight)

	s.lock.Lock()
	q := s.queues[weight]
	if q == nil {
		q = list.New()
		s.queues[weight] = q
	}

	p.elem = q.PushBack(p)
	s.pending++
	s.dispatch()
	s.lock.Unlock()

	return p, nil
}

// Acquire blocks until weight resources are granted or the request is canceled.
func (s *Weighted) Acquire(weight int) (Grant, error) {
	p, err := s.Request(weight)
	if err != nil {
		return Grant{}, err
	}

	return p.Result()
}

// AcquireCtx blocks until weight resources are granted, the request is canceled, or ctx is done.
// When ctx ends first the request is withdrawn and ctx.Err() is returned.
func (s *Weighted) AcquireCtx(ctx context.Context, weight int) (Grant, error) {
	p, err := s.Request(weight)
	if err != nil {
		return Grant{}, err
	}

	return p.Wait(ctx)
}

// AcquireWait blocks until weight resources are granted, the request is canceled, or the given
// time channel is signaled.  In the last case the request is withdrawn and ErrTimeout is returned.
func (s *Weighted) AcquireWait(t <-chan time.Time, weight int) (Grant, error) {
	p, err := s.Request(weight)
	if err != nil {
		return Grant{}, err
	}

	select {
	case <-p.Done():
		return p.Result()

	case <-t:
		return p.abandon(ErrTimeout)
	}
}

// AcquireTimeout is AcquireWait driven by a timer from this semaphore's clock.  A nonpositive d
// means the timeout configured with WithTimeout, and if that is also unset this method behaves
// exactly like Acquire.
func (s *Weighted) AcquireTimeout(d time.Duration, weight int) (Grant, error) {
	if err := checkWeight(weight); err != nil {
		return Grant{}, err
	}

	if d <= 0 {
		d = s.timeout
	}

	if d <= 0 {
		return s.Acquire(weight)
	}

	timer := s.clock.NewTimer(d)
	defer timer.Stop()
	return s.AcquireWait(timer.C(), weight)
}

// TryAcquire grants weight resources only if that can be done without waiting.  Nothing is
// queued when this method returns false.
func (s *Weighted) TryAcquire(weight int) (Grant, bool) {
	if weight <= 0 {
		return Grant{}, false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	// after any dispatch pass nothing queued fits into the value, so a request that fits
	// would be the one the next pass grants
	if weight > s.value {
		return Grant{}, false
	}

	g := s.grant(weight)
	s.updateGauges()
	return g, true
}

// RunExclusive acquires weight resources, runs worker with the value observed at grant time, and
// releases the resources on every exit path before returning.  An error from worker is returned
// unchanged, and a panic in worker propagates after the release.
func (s *Weighted) RunExclusive(ctx context.Context, weight int, worker Worker) error {
	g, err := s.AcquireCtx(ctx, weight)
	if err != nil {
		return err
	}

	defer g.Release()
	return worker(g.Value())
}

// Unlocked returns a channel that is closed the first time a dispatch pass observes a value of at
// least weight.  No resources are reserved.
func (s *Weighted) Unlocked(weight int) (<-chan struct{}, error) {
	if err := checkWeight(weight); err != nil {
		return nil, err
	}

	ch := make(chan struct{})

	s.lock.Lock()
	s.waiters[weight] = append(s.waiters[weight], ch)
	s.dispatch()
	s.lock.Unlock()

	return ch, nil
}

// WaitForUnlock blocks until the semaphore's value is observed to be at least weight, or until
// ctx is done.
func (s *Weighted) WaitForUnlock(ctx context.Context, weight int) error {
	ch, err := s.Unlocked(weight)
	if err != nil {
		return err
	}

	select {
	case <-ch:
		return nil

	case <-ctx.Done():
		s.forgetWaiter(weight, ch)
		return ctx.Err()
	}
}

// IsLocked tests if the semaphore's value is zero or negative.
func (s *Weighted) IsLocked() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.value <= 0
}

// Value returns a snapshot of the semaphore's current value.
func (s *Weighted) Value() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.value
}

// SetValue overwrites the semaphore's value and runs a dispatch pass.  This intentionally bypasses
// grant and release accounting, and exists to model externally driven limits such as a periodic
// refill of a rate limit.
func (s *Weighted) SetValue(value int) {
	s.lock.Lock()
	previous := s.value
	s.value = value
	s.dispatch()
	s.lock.Unlock()

	s.logger.Debug("semaphore value set", zap.Int("previous", previous), zap.Int("value", value))
}

// Release adds weight back into the semaphore and runs a dispatch pass.  Unlike a Releaser, this
// is not idempotent.  Pairing calls with acquisitions is the caller's responsibility.
func (s *Weighted) Release(weight int) error {
	if err := checkWeight(weight); err != nil {
		return err
	}

	s.release(weight, false)
	return nil
}

// Cancel fails every queued request with the semaphore's cancellation error and empties the
// queues.  Granted resources, unlock waiters, and later requests are unaffected.
func (s *Weighted) Cancel() {
	s.lock.Lock()
	weights := maps.Keys(s.queues)
	slices.Sort(weights)

	canceled := 0
	for _, w := range weights {
		for e := s.queues[w].Front(); e != nil; e = e.Next() {
			e.Value.(*Pending).complete(Grant{}, s.cancelErr)
			canceled++
		}
	}

	s.queues = make(map[int]*list.List)
	s.pending = 0
	s.updateGauges()
	s.lock.Unlock()

	if canceled > 0 {
		s.measures.Canceled.Add(float64(canceled))
		s.logger.Debug("canceled queued requests", zap.Int("count", canceled), zap.Error(s.cancelErr))
	}
}

// Len returns the number of queued requests.
func (s *Weighted) Len() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.pending
}

func (s *Weighted) String() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return fmt.Sprintf("Weighted(value=%d, pending=%d)", s.value, s.pending)
}

// release adds weight back into the value.  fromGrant is set when the weight comes back
// through a Releaser, as opposed to a raw Release.
func (s *Weighted) release(weight int, fromGrant bool) {
	s.lock.Lock()
	s.value += weight
	if fromGrant {
		s.returnGranted(weight)
	}

	s.dispatch()
	s.lock.Unlock()
}

// returnGranted must be called with s.lock held.  The granted count never drops below zero,
// even when a guarded release and the holder's Releaser both return the same weight.
func (s *Weighted) returnGranted(weight int) {
	s.granted -= weight
	if s.granted < 0 {
		s.granted = 0
	}
}

// releaseWhileLocked releases weight only if the semaphore is locked, checking and releasing
// under a single hold of the lock.
func (s *Weighted) releaseWhileLocked(weight int) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.value > 0 {
		return false
	}

	s.value += weight
	s.returnGranted(weight)
	s.dispatch()
	return true
}

func (s *Weighted) withdraw(p *Pending) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if p.elem == nil {
		return false
	}

	q := s.queues[p.weight]
	q.Remove(p.elem)
	p.elem = nil
	if q.Len() == 0 {
		delete(s.queues, p.weight)
	}

	s.pending--
	s.dispatch()
	s.logger.Debug("withdrew queued request", zap.Int("weight", p.weight))
	return true
}

func (s *Weighted) forgetWaiter(weight int, ch <-chan struct{}) {
	s.lock.Lock()
	defer s.lock.Unlock()

	waiters := s.waiters[weight]
	for i, w := range waiters {
		if w == ch {
			waiters = append(waiters[:i], waiters[i+1:]...)
			break
		}
	}

	if len(waiters) == 0 {
		delete(s.waiters, weight)
	} else {
		s.waiters[weight] = waiters
	}
}

// dispatch must be called with s.lock held.
//
// Conceptually the pass descends from the current value to 1, granting the first weight with a
// queued request and restarting the descent from the reduced value.  The first weight met on
// such a descent is the largest queued weight that fits, which is what largestFit finds without
// visiting every integer below a possibly very large value.
func (s *Weighted) dispatch() {
	for {
		weight := s.largestFit()
		if weight == 0 {
			break
		}

		q := s.queues[weight]
		p := q.Remove(q.Front()).(*Pending)
		if q.Len() == 0 {
			delete(s.queues, weight)
		}

		s.pending--
		p.complete(s.grant(weight), nil)
	}

	for weight, waiters := range s.waiters {
		if weight > s.value {
			continue
		}

		for _, ch := range waiters {
			close(ch)
		}

		delete(s.waiters, weight)
	}

	s.updateGauges()
}

// largestFit returns the largest queued weight no greater than the current value, or 0.
func (s *Weighted) largestFit() int {
	fit := 0
	for weight := range s.queues {
		if weight <= s.value && weight > fit {
			fit = weight
		}
	}

	return fit
}

// grant must be called with s.lock held and weight <= s.value.
func (s *Weighted) grant(weight int) Grant {
	g := Grant{
		value:    s.value,
		releaser: newReleaser(s, weight),
	}

	s.value -= weight
	s.granted += weight
	return g
}

func (s *Weighted) updateGauges() {
	s.measures.Resources.Set(float64(s.granted))
	s.measures.Value.Set(float64(s.value))
	s.measures.Pending.Set(float64(s.pending))
}
