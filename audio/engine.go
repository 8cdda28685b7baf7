package audio

import (
	"fmt"
	"math"
	"sync"

	log "github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const resampleQuality = 4

// Engine is the one-shot player. It owns the speaker and a persistent
// voice mixer behind a master volume stage; every trigger adds an
// independent voice to the mixer.
type Engine struct {
	mu      sync.Mutex
	rate    beep.SampleRate
	buffer  int
	mix     *beep.Mixer
	volume  *effects.Volume
	level   float64
	started bool
	log     *log.Logger
}

// NewEngine prepares an engine for the given sample rate and speaker
// buffer size (in frames). The speaker is not opened until Start.
func NewEngine(sampleRate, bufferSize int) *Engine {
	e := &Engine{
		rate:   beep.SampleRate(sampleRate),
		buffer: bufferSize,
		mix:    &beep.Mixer{},
		level:  1.0,
		log:    log.Default().WithPrefix("audio"),
	}
	e.volume = &effects.Volume{Streamer: e.mix, Base: 2}
	return e
}

// Rate returns the engine's output sample rate.
func (e *Engine) Rate() beep.SampleRate { return e.rate }

// Start opens the speaker and begins pulling from the voice mixer.
// Failure here is fatal to the caller; there is no retry.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return nil
	}
	if err := speaker.Init(e.rate, e.buffer); err != nil {
		return fmt.Errorf("open speaker: %w", err)
	}
	speaker.Play(e.volume)
	e.started = true
	e.log.Info("speaker open", "rate", int(e.rate), "buffer", e.buffer)
	return nil
}

// Play starts one asynchronous voice for the sample and returns
// immediately. Before Start, or for an empty sample, it is a no-op;
// a dropped hit is logged, never fatal.
func (e *Engine) Play(s *Sample) {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		return
	}
	if s == nil || s.Len() == 0 {
		e.log.Warn("dropping empty sample")
		return
	}
	var v beep.Streamer = s.Streamer()
	if s.Rate() != e.rate {
		v = beep.Resample(resampleQuality, s.Rate(), e.rate, v)
	}
	speaker.Lock()
	e.mix.Add(v)
	speaker.Unlock()
}

// SetVolume sets the master level in [0, 1] inclusive. Out-of-range
// values are warned and ignored, the prior level stays. The level
// applies to currently playing voices as well as future ones.
func (e *Engine) SetVolume(level float64) {
	if level < 0 || level > 1 {
		e.log.Warn("volume out of range", "level", level)
		return
	}
	e.mu.Lock()
	e.level = level
	e.mu.Unlock()

	speaker.Lock()
	e.volume.Silent = level == 0
	if level > 0 {
		e.volume.Volume = math.Log2(level)
	}
	speaker.Unlock()
}

// Volume returns the current master level.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.level
}

// Close drops all voices and closes the speaker.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return
	}
	speaker.Clear()
	speaker.Close()
	e.started = false
	e.log.Info("speaker closed")
}
