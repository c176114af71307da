package slider

import "time"

// Debouncer holds at most one pending call. Trigger always cancels and
// replaces the pending one, so rapid triggers never accumulate.
type Debouncer struct {
	timers TimerDriver
	delay  time.Duration
	id     TimerID
}

// NewDebouncer creates a debouncer that fires delay after the last Trigger.
func NewDebouncer(timers TimerDriver, delay time.Duration) *Debouncer {
	return &Debouncer{timers: timers, delay: delay}
}

// Trigger schedules fn, cancelling whatever was pending.
func (d *Debouncer) Trigger(fn func()) {
	d.Cancel()
	d.id = d.timers.AfterFunc(d.delay, func() {
		d.id = 0
		fn()
	})
}

// Cancel drops the pending call, if any. Safe to call repeatedly.
func (d *Debouncer) Cancel() {
	if d.id == 0 {
		return
	}
	d.timers.StopTimer(d.id)
	d.id = 0
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool { return d.id != 0 }
