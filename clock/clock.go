// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the time sources used by timed semaphore acquisition, so that
// timeouts can be driven deterministically in tests.
package clock

import "time"

// Interface is the subset of the time package that timed acquisition depends on.
type Interface interface {
	NewTimer(time.Duration) Timer
}

type systemClock struct{}

func (sc systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
