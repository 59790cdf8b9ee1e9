package types

import "time"

// Clock abstracts the system clock so time-derived state (lien urgency,
// commission week windows) is testable with a fixed time.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewRealClock() Clock {
	return realClock{}
}

// FixedClock always reports the same instant. Test helper.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time { return c.Time }
