package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Sample is an immutable mono 16-bit sound buffer. It is shared by
// reference between the kit, the sequencer tracks and the player;
// nothing may modify the PCM data after construction.
type Sample struct {
	name string
	pcm  []int16
	rate beep.SampleRate
}

// NewSample wraps pcm data recorded at the given rate.
func NewSample(name string, pcm []int16, rate beep.SampleRate) *Sample {
	return &Sample{name: name, pcm: pcm, rate: rate}
}

// FromFloats builds a sample from float data in [-1, 1].
func FromFloats(name string, samples []float64, rate beep.SampleRate) *Sample {
	return NewSample(name, FloatsToPCM(samples), rate)
}

// Name returns the sound name, e.g. "KICK".
func (s *Sample) Name() string { return s.name }

// Len returns the number of PCM frames.
func (s *Sample) Len() int { return len(s.pcm) }

// Rate returns the sample rate the PCM data was produced at.
func (s *Sample) Rate() beep.SampleRate { return s.rate }

// Duration returns the playback length of the buffer.
func (s *Sample) Duration() time.Duration { return s.rate.D(len(s.pcm)) }

// PCM returns the underlying buffer. Read-only by convention.
func (s *Sample) PCM() []int16 { return s.pcm }

// Streamer returns a fresh playback voice positioned at the start.
// Every trigger gets its own voice so overlapping hits overlap instead
// of cutting each other off.
func (s *Sample) Streamer() beep.Streamer {
	return &voice{pcm: s.pcm}
}

// voice streams a PCM buffer once, mono duplicated to both channels.
type voice struct {
	pcm []int16
	pos int
}

func (v *voice) Stream(out [][2]float64) (n int, ok bool) {
	for n < len(out) && v.pos < len(v.pcm) {
		f := float64(v.pcm[v.pos]) / (MaxSample + 1)
		out[n][0], out[n][1] = f, f
		v.pos++
		n++
	}
	return n, n > 0
}

func (v *voice) Err() error { return nil }
