package sequencer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/charmbracelet/log"

	"beatbox/audio"
)

var (
	// ErrTempoTooLow is returned when a tempo falls below the mixer's floor.
	ErrTempoTooLow = errors.New("tempo below minimum")
	// ErrTrackIndex is returned for an out-of-range track index.
	ErrTrackIndex = errors.New("track index out of range")
	// ErrPatternLength is returned when a pattern does not match the
	// master step count.
	ErrPatternLength = errors.New("pattern length mismatch")
)

// The step index reported to the sink trails the cursor by two steps,
// so the display tracks what is audible rather than what is queued.
const displayLag = 2

// StepFunc receives the display step index once per playing tick. It
// is called from the clock goroutine and must not block.
type StepFunc func(step int)

// MixerConfig carries the construction-time mixer settings.
type MixerConfig struct {
	BPM    float64
	MinBPM float64
	Steps  int
	OnStep StepFunc
	Clock  Clock // nil means wall clock
}

// Mixer owns the track set, the master tempo and the single step
// clock. One goroutine ticks all tracks in lock-step; tracks never
// run their own loops while owned by a mixer. Lock order is always
// Mixer then Track, never the reverse.
type Mixer struct {
	mu      sync.Mutex
	player  Player
	tracks  []*Track
	bpm     float64
	minBPM  float64
	steps   int
	cursor  int
	stepDur time.Duration
	playing bool
	onStep  StepFunc

	clock    Clock
	log      *log.Logger
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewMixer builds one track per sample, every pattern all-false at the
// master step count. The track set is fixed afterwards.
func NewMixer(player Player, samples []*audio.Sample, cfg MixerConfig) (*Mixer, error) {
	if cfg.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", cfg.Steps)
	}
	if cfg.MinBPM <= 0 {
		cfg.MinBPM = 1
	}
	if cfg.BPM < cfg.MinBPM {
		return nil, fmt.Errorf("%w: %g < %g", ErrTempoTooLow, cfg.BPM, cfg.MinBPM)
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}

	m := &Mixer{
		player:  player,
		bpm:     cfg.BPM,
		minBPM:  cfg.MinBPM,
		steps:   cfg.Steps,
		stepDur: StepDuration(cfg.BPM),
		onStep:  cfg.OnStep,
		clock:   cfg.Clock,
		log:     log.Default().WithPrefix("mixer"),
	}
	for _, s := range samples {
		t, err := NewTrack(s.Name(), s, player, cfg.BPM, cfg.Steps)
		if err != nil {
			return nil, err
		}
		t.clock = cfg.Clock
		m.tracks = append(m.tracks, t)
	}
	return m, nil
}

// NumTracks returns the number of tracks.
func (m *Mixer) NumTracks() int { return len(m.tracks) }

// NumSteps returns the master step count.
func (m *Mixer) NumSteps() int { return m.steps }

// Track returns the track at index i, or nil if out of range.
func (m *Mixer) Track(i int) *Track {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	return m.tracks[i]
}

// SetTrackSteps assigns a pattern to one track. The pattern length
// must equal the master step count; on failure the previous pattern
// stays in place.
func (m *Mixer) SetTrackSteps(track int, p Pattern) error {
	m.mu.Lock()
	if track < 0 || track >= len(m.tracks) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrTrackIndex, track)
	}
	if len(p) != m.steps {
		m.mu.Unlock()
		return fmt.Errorf("%w: got %d, want %d", ErrPatternLength, len(p), m.steps)
	}
	t := m.tracks[track]
	m.mu.Unlock()

	t.SetPattern(p)
	return nil
}

// SetTempo updates the master tempo and pushes it to every track.
// Fails without touching state when bpm is under the floor.
func (m *Mixer) SetTempo(bpm float64) error {
	m.mu.Lock()
	if bpm < m.minBPM {
		m.mu.Unlock()
		return fmt.Errorf("%w: %g < %g", ErrTempoTooLow, bpm, m.minBPM)
	}
	m.bpm = bpm
	m.stepDur = StepDuration(bpm)
	for _, t := range m.tracks {
		t.SetTempo(bpm)
	}
	m.mu.Unlock()
	return nil
}

// Tempo returns the master tempo.
func (m *Mixer) Tempo() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bpm
}

// Play enables ticking. The clock keeps running either way; this flag
// gates cursor advance, triggers and notifications together.
func (m *Mixer) Play() {
	m.mu.Lock()
	m.playing = true
	m.mu.Unlock()
}

// Stop freezes the cursor and silences every track. Idempotent.
func (m *Mixer) Stop() {
	m.mu.Lock()
	m.playing = false
	m.mu.Unlock()
}

// Playing reports whether the transport is running.
func (m *Mixer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Start launches the master clock goroutine. Idempotent. The clock
// ticks whether or not the transport is playing; a stopped transport
// just makes every tick a no-op.
func (m *Mixer) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopChan = make(chan struct{})
	m.doneChan = make(chan struct{})
	stop, done := m.stopChan, m.doneChan
	m.mu.Unlock()

	go func() {
		defer close(done)
		runLoop(m.clock, stop, m.interval, m.tick)
	}()
	m.log.Debug("clock started", "bpm", m.bpm, "steps", m.steps)
}

// Close shuts the mixer down: signal the clock, wait bounded for it,
// then stop every track. Idempotent. Teardown proceeds even if the
// clock goroutine misses the deadline.
func (m *Mixer) Close() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.playing = false
	stop, done := m.stopChan, m.doneChan
	tracks := m.tracks
	m.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(joinTimeout):
		m.log.Warn("clock loop did not stop in time")
	}
	for _, t := range tracks {
		t.Stop()
	}
	m.log.Debug("clock stopped")
}

func (m *Mixer) interval() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stepDur
}

// tick is one master step. Nothing moves while the transport is
// stopped. While playing: report the lag-compensated display index,
// advance the master cursor, then tick every track outside the mixer
// lock so triggers never hold it.
func (m *Mixer) tick() {
	m.mu.Lock()
	if !m.playing {
		m.mu.Unlock()
		return
	}
	display := mod(m.cursor-displayLag, m.steps)
	m.cursor = (m.cursor + 1) % m.steps
	tracks := m.tracks
	onStep := m.onStep
	m.mu.Unlock()

	for _, t := range tracks {
		t.Advance()
	}
	if onStep != nil {
		onStep(display)
	}
}

// GetState returns a consistent snapshot of the mixer and its tracks,
// taken under the mixing lock.
func (m *Mixer) GetState() MixerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	st := MixerState{
		Playing: m.playing,
		Running: m.running,
		Tempo:   m.bpm,
		Steps:   m.steps,
		Cursor:  m.cursor,
		StepDur: m.stepDur,
	}
	for _, t := range m.tracks {
		st.Tracks = append(st.Tracks, t.State())
	}
	return st
}
