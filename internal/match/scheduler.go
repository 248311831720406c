package match

import "time"

// TimerHandle cancels a pending scheduled call. Stop reports whether the call
// was still pending.
type TimerHandle interface {
	Stop() bool
}

// Scheduler owns delayed one-shot calls. The queue holds a handle per waiting
// entry so cancellation on pairing or disconnect is structural rather than a
// bookkeeping convention. Tests substitute a manual implementation.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) TimerHandle
}

type clockScheduler struct{}

// NewClockScheduler returns the wall-clock scheduler backed by time.AfterFunc.
func NewClockScheduler() Scheduler {
	return clockScheduler{}
}

func (clockScheduler) Schedule(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}
