// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"time"

	"github.com/xmidt-org/locks/clock"
	"github.com/xmidt-org/sallust"
	"go.uber.org/zap"
)

// Option represents a configurable option for a semaphore
type Option func(*Weighted)

func defaultOptions() []Option {
	return []Option{
		WithCancelError(nil),
		WithLogger(nil),
		WithClock(nil),
		WithMeasures(Measures{}),
	}
}

// WithCancelError sets the error delivered to queued requests by Cancel.  If nil, ErrCanceled is used.
func WithCancelError(err error) Option {
	return func(s *Weighted) {
		if err != nil {
			s.cancelErr = err
		} else {
			s.cancelErr = ErrCanceled
		}
	}
}

// WithLogger sets the zap Logger used for debug output.  If nil, the default logger is used instead.
func WithLogger(l *zap.Logger) Option {
	return func(s *Weighted) {
		if l != nil {
			s.logger = l
		} else {
			s.logger = sallust.Default()
		}
	}
}

// WithClock sets the clock used to create timers for AcquireTimeout.  If nil, the system clock is used.
func WithClock(c clock.Interface) Option {
	return func(s *Weighted) {
		if c != nil {
			s.clock = c
		} else {
			s.clock = clock.System()
		}
	}
}

// WithTimeout sets the timeout AcquireTimeout falls back to when called without one.
// A nonpositive value leaves such calls untimed.
func WithTimeout(d time.Duration) Option {
	return func(s *Weighted) {
		s.timeout = d
	}
}

// WithMeasures establishes the metrics a semaphore reports to.  Any nil field is discarded.
func WithMeasures(m Measures) Option {
	return func(s *Weighted) {
		s.measures = m.orDiscard()
	}
}
