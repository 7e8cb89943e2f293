// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a timeout occurs while waiting to acquire a semaphore resource.
	// This error does not apply when using a context.  ctx.Err() is returned in that case.
	ErrTimeout = errors.New("The semaphore could not be acquired within the timeout")

	// ErrCanceled is the default error delivered to queued requests when Cancel is invoked.
	// Use WithCancelError to supply a different error.
	ErrCanceled = errors.New("request for lock canceled")

	// ErrInvalidWeight is returned, wrapped with the offending value, by any operation
	// that receives a nonpositive weight.  No state is changed when this error is returned.
	ErrInvalidWeight = errors.New("invalid weight: must be positive")
)

func checkWeight(weight int) error {
	if weight <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWeight, weight)
	}

	return nil
}
