package service

import "time"

// Clock supplies the current time. Services evaluate booking windows
// and comment eligibility against it; tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// realClock implements Clock with the system time.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// NewClock returns a Clock backed by the system time.
func NewClock() Clock {
	return realClock{}
}
