package sequencer

import "time"

// Poll granularity of the step loops. Step durations at musical tempos
// are tens of milliseconds, so drift stays bounded by this interval.
const pollInterval = 500 * time.Microsecond

// How long Stop/Close wait for a loop goroutine before giving up.
const joinTimeout = time.Second

// Clock abstracts wall time so step loops can be driven in tests.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// StepDuration returns the length of one step at the given tempo.
// A step is a 16th note: one beat is four steps, so a step lasts
// 60/bpm/4 seconds.
func StepDuration(bpm float64) time.Duration {
	return time.Duration(float64(time.Second) * 60.0 / bpm / 4.0)
}

// runLoop calls tick whenever interval() has elapsed, then resets the
// reference time. Between ticks it polls the clock so tempo changes
// shorten or stretch the step already in flight. Returns when stop is
// closed.
func runLoop(clk Clock, stop <-chan struct{}, interval func() time.Duration, tick func()) {
	last := clk.Now()
	for {
		select {
		case <-stop:
			return
		default:
		}
		if d := interval(); d > 0 && clk.Now().Sub(last) >= d {
			tick()
			last = clk.Now()
		}
		clk.Sleep(pollInterval)
	}
}

// mod is the positive remainder of a % n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
