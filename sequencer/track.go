package sequencer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/charmbracelet/log"

	"beatbox/audio"
)

// ErrInvalidTempo is returned for tempos that are zero or negative.
var ErrInvalidTempo = errors.New("tempo must be positive")

// Player starts asynchronous one-shot playback of a sample. Implemented
// by audio.Engine and by the MIDI bridge that wraps it.
type Player interface {
	Play(s *audio.Sample)
}

// Track owns one drum sound: its pattern, tempo and step cursor. One
// mutex guards all of it. Under a Mixer the master clock drives the
// track through Advance; Start runs a private loop for a track used on
// its own.
type Track struct {
	mu      sync.Mutex
	name    string
	sample  *audio.Sample
	player  Player
	pattern Pattern
	bpm     float64
	stepDur time.Duration
	cursor  int

	clock    Clock
	log      *log.Logger
	running  bool
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewTrack creates a track with an all-false pattern of the given
// length. The tempo must be positive and steps at least 1.
func NewTrack(name string, sample *audio.Sample, player Player, bpm float64, steps int) (*Track, error) {
	if bpm <= 0 {
		return nil, fmt.Errorf("%w: %g", ErrInvalidTempo, bpm)
	}
	if steps < 1 {
		return nil, fmt.Errorf("track %q: steps must be at least 1, got %d", name, steps)
	}
	return &Track{
		name:    name,
		sample:  sample,
		player:  player,
		pattern: NewPattern(steps),
		bpm:     bpm,
		stepDur: StepDuration(bpm),
		clock:   systemClock{},
		log:     log.Default().WithPrefix("track"),
	}, nil
}

// Name returns the track's sound name.
func (t *Track) Name() string { return t.name }

// Sample returns the sound this track triggers.
func (t *Track) Sample() *audio.Sample { return t.sample }

// SetPattern replaces the whole pattern. The cursor resets to 0 when
// the length changes, so it can never index past either pattern.
func (t *Track) SetPattern(p Pattern) {
	next := p.Clone()
	t.mu.Lock()
	if len(next) != len(t.pattern) {
		t.cursor = 0
	}
	t.pattern = next
	t.mu.Unlock()
}

// Pattern returns a copy of the current pattern.
func (t *Track) Pattern() Pattern {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pattern.Clone()
}

// SetTempo updates the tempo and the derived step duration. Fails
// without touching state when bpm is not positive.
func (t *Track) SetTempo(bpm float64) error {
	if bpm <= 0 {
		return fmt.Errorf("%w: %g", ErrInvalidTempo, bpm)
	}
	t.mu.Lock()
	t.bpm = bpm
	t.stepDur = StepDuration(bpm)
	t.mu.Unlock()
	return nil
}

// Advance is one tick: fire if the pattern has any active step and the
// flag under the cursor is set, then move the cursor by one, wrapping.
// The trigger happens after the lock is released so a slow player can
// never stall a tick.
func (t *Track) Advance() {
	t.mu.Lock()
	var fire *audio.Sample
	if len(t.pattern) > 0 {
		if t.pattern.Any() && t.pattern[t.cursor] {
			fire = t.sample
		}
		t.cursor = (t.cursor + 1) % len(t.pattern)
	} else {
		t.cursor = 0
	}
	player := t.player
	t.mu.Unlock()

	if fire != nil && player != nil {
		player.Play(fire)
	}
}

// Start runs the track's own step loop. Idempotent. Not used when a
// Mixer owns the track; the master clock calls Advance instead.
func (t *Track) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.stopChan = make(chan struct{})
	t.doneChan = make(chan struct{})
	stop, done := t.stopChan, t.doneChan
	t.mu.Unlock()

	go func() {
		defer close(done)
		runLoop(t.clock, stop, t.interval, t.Advance)
	}()
}

// Stop signals the loop and waits for it, bounded. Idempotent. A loop
// that misses the deadline may still finish one last tick after Stop
// returns.
func (t *Track) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	stop, done := t.stopChan, t.doneChan
	t.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(joinTimeout):
		t.log.Warn("step loop did not stop in time", "track", t.name)
	}
}

func (t *Track) interval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stepDur
}

// State returns a consistent snapshot of the track.
func (t *Track) State() TrackState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TrackState{
		Name:    t.name,
		Steps:   t.pattern.Clone(),
		Active:  t.pattern.Active(),
		Cursor:  t.cursor,
		Tempo:   t.bpm,
		StepDur: t.stepDur,
		Running: t.running,
	}
}
