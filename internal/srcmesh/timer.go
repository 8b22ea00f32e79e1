package srcmesh

import "time"

// Timer accumulates wall time across Start/Stop pairs.
type Timer struct {
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

func NewTimer() *Timer { return &Timer{now: time.Now} }

// newTimerWithClock is used by tests to drive the timer deterministically.
func newTimerWithClock(now func() time.Time) *Timer { return &Timer{now: now} }

func (t *Timer) Start() {
	if t.running {
		return
	}
	t.started = t.now()
	t.running = true
}

func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.elapsed += t.now().Sub(t.started)
	t.running = false
}

// Elapsed includes the current interval when the timer is running.
func (t *Timer) Elapsed() time.Duration {
	if t.running {
		return t.elapsed + t.now().Sub(t.started)
	}
	return t.elapsed
}

func (t *Timer) Reset() {
	t.elapsed = 0
	t.running = false
}
