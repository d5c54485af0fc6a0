package scheduler

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It returns false if the
	// callback already ran or is running.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// realClock schedules on the runtime timer heap
type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
