// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"container/list"
	"context"
)

// Pending is the deferred result of a Request.  It is completed exactly once by the semaphore,
// either with a Grant or with the semaphore's cancellation error.
type Pending struct {
	s      *Weighted
	weight int

	// elem is the request's position in its weight queue.  It is nil once the
	// request leaves the queue.  Guarded by s.lock.
	elem *list.Element

	done  chan struct{}
	grant Grant
	err   error
}

func newPending(s *Weighted, weight int) *Pending {
	return &Pending{
		s:      s,
		weight: weight,
		done:   make(chan struct{}),
	}
}

// complete must be called with s.lock held.
func (p *Pending) complete(g Grant, err error) {
	p.elem = nil
	p.grant = g
	p.err = err
	close(p.done)
}

// Weight is the number of resources requested.
func (p *Pending) Weight() int {
	return p.weight
}

// Done returns a channel that is closed once this request has been granted or canceled.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Result blocks until this request completes, then returns its outcome.
func (p *Pending) Result() (Grant, error) {
	<-p.done
	return p.grant, p.err
}

// Wait blocks until this request completes or ctx is done.  If ctx ends first, the request
// is withdrawn and ctx.Err() is returned.  A grant that races with ctx is released immediately,
// so a nil error always means the caller holds the grant.
func (p *Pending) Wait(ctx context.Context) (Grant, error) {
	select {
	case <-p.done:
		return p.grant, p.err

	case <-ctx.Done():
		return p.abandon(ctx.Err())
	}
}

// Withdraw removes this request from its queue.  It returns true if the request was still
// queued, in which case it will never complete.  If it returns false, the request has already
// completed and the caller is responsible for the outcome reported by Result.
func (p *Pending) Withdraw() bool {
	return p.s.withdraw(p)
}

// abandon gives up on this request, returning err to the caller in place of whatever
// outcome the request may have reached concurrently.
func (p *Pending) abandon(err error) (Grant, error) {
	if p.Withdraw() {
		p.s.measures.Timeouts.Add(1.0)
		return Grant{}, err
	}

	if p.err != nil {
		return Grant{}, p.err
	}

	// granted after the caller stopped waiting
	p.grant.Release()
	p.s.measures.Timeouts.Add(1.0)
	return Grant{}, err
}
