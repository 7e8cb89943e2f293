// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package semaphore provides a weighted counting semaphore and a mutex built on it.

A Weighted semaphore holds an integer value.  Requests ask for a positive weight and are queued
per weight.  Every change to the value or to the queues runs a dispatch pass, which repeatedly
grants the largest queued weight that still fits into the value.  Each grant carries the value as
it was just before the grant and a one-shot Releaser that returns exactly the granted weight.

	s := semaphore.NewWeighted(4)
	err := s.RunExclusive(ctx, 2, func(value int) error {
		// two of the four resources are held here
		return nil
	})

Cancel fails every queued request, which is useful when the guarded resource is going away.
SetValue overwrites the value outright, which suits limits that are refilled from outside, as
with a rate limit.

Mutex is the binary case: an initial value of 1 with every request weighing 1.
*/
package semaphore
