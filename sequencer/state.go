package sequencer

import "time"

// TrackState is a read-only snapshot of one track, taken under the
// track's own lock.
type TrackState struct {
	Name    string
	Steps   Pattern
	Active  []int
	Cursor  int
	Tempo   float64
	StepDur time.Duration
	Running bool
}

// MixerState is a read-only snapshot of the mixer and all its tracks.
type MixerState struct {
	Playing bool
	Running bool
	Tempo   float64
	Steps   int
	Cursor  int
	StepDur time.Duration
	Tracks  []TrackState
}
