package castle

import "time"

// PeriodicTask runs fn on a fixed interval driven by the caller's clock.
// Elapsed time accumulates; each Advance runs as many whole intervals as
// fit, capped at maxSteps so a long stall does not snowball. When the cap is
// hit the backlog is dropped and the schedule restarts from now.
type PeriodicTask struct {
	name     string
	interval time.Duration
	maxSteps int
	fn       func()

	acc     time.Duration
	runs    uint64
	dropped uint64
	stopped bool
}

// NewPeriodicTask builds a task. interval 0 means "every Advance".
func NewPeriodicTask(name string, interval time.Duration, maxSteps int, fn func()) *PeriodicTask {
	if maxSteps <= 0 {
		maxSteps = 1
	}
	return &PeriodicTask{name: name, interval: interval, maxSteps: maxSteps, fn: fn}
}

// Advance adds dt to the accumulator and runs due steps; it returns how many ran.
func (t *PeriodicTask) Advance(dt time.Duration) int {
	if t.stopped {
		return 0
	}
	if t.interval <= 0 {
		t.fn()
		t.runs++
		return 1
	}
	if dt > 0 {
		t.acc += dt
	}
	steps := 0
	for t.acc >= t.interval && steps < t.maxSteps {
		t.fn()
		t.acc -= t.interval
		steps++
	}
	if t.acc >= t.interval {
		t.dropped += uint64(t.acc / t.interval)
		t.acc = 0
	}
	t.runs += uint64(steps)
	return steps
}

// Step runs the task exactly once, ignoring the accumulator.
func (t *PeriodicTask) Step() {
	if t.stopped {
		return
	}
	t.fn()
	t.runs++
}

func (t *PeriodicTask) Stop() { t.stopped = true }

func (t *PeriodicTask) Stopped() bool { return t.stopped }

func (t *PeriodicTask) Runs() uint64 { return t.runs }

// Dropped counts intervals discarded by the catch-up cap.
func (t *PeriodicTask) Dropped() uint64 { return t.dropped }

func (t *PeriodicTask) Name() string { return t.name }
