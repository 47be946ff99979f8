// Package clock provides time operations that can be swapped out for testing.
package clock

import "time"

// Clock is the time source used by anything that needs to measure elapsed
// wall-clock time.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// New creates a new RealClock.
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time.
func (c *RealClock) Now() time.Time {
	return time.Now()
}
