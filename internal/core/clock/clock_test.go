package clock

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	var c Clock = New()

	before := time.Now()
	got := c.Now()
	after := time.Now()

	if got.Before(before) || got.After(after) {
		t.Errorf("Now() = %v, expected a time between %v and %v", got, before, after)
	}
}
