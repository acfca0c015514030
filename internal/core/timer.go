package core

import "time"

// FixedStep paces repeated work at a steady number of steps per second.
// A rate of zero or less disables pacing.
type FixedStep struct {
	step time.Duration
	next time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewFixedStep constructs a FixedStep targeting rate steps per second.
func NewFixedStep(rate int) *FixedStep {
	fs := &FixedStep{now: time.Now, sleep: time.Sleep}
	fs.SetRate(rate)
	return fs
}

// SetRate changes the step rate.
func (f *FixedStep) SetRate(rate int) {
	if rate <= 0 {
		f.step = 0
		return
	}
	f.step = time.Second / time.Duration(rate)
}

// Ready reports whether a step is due and, if so, schedules the next one.
func (f *FixedStep) Ready() bool {
	if f.step == 0 {
		return true
	}
	now := f.now()
	if f.next.IsZero() || !now.Before(f.next) {
		f.next = now.Add(f.step)
		return true
	}
	return false
}

// Wait blocks until the next step is due.
func (f *FixedStep) Wait() {
	if f.step == 0 {
		return
	}
	if !f.next.IsZero() {
		if d := f.next.Sub(f.now()); d > 0 {
			f.sleep(d)
		}
	}
	f.next = f.now().Add(f.step)
}
