// Package midiout mirrors sequencer triggers to an external MIDI device.
package midiout

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"beatbox/audio"
	"beatbox/sequencer"
)

const (
	noteVelocity = 100
	noteLength   = 100 * time.Millisecond
)

// Bridge is a sequencer.Player that forwards every trigger to an inner
// player and mirrors it as a note on a MIDI out port.
type Bridge struct {
	inner sequencer.Player
	send  func(gomidi.Message) error
	ch    uint8
	notes map[string]uint8
	log   *log.Logger
}

// Open connects to the named MIDI out port. Sounds without a note
// mapping stay audio-only.
func Open(portName string, channel uint8, notes map[string]uint8, inner sequencer.Player) (*Bridge, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			send, err := gomidi.SendTo(port)
			if err != nil {
				return nil, fmt.Errorf("open midi port %q: %w", portName, err)
			}
			return newBridge(send, channel, notes, inner), nil
		}
	}
	return nil, fmt.Errorf("midi port %q not found", portName)
}

func newBridge(send func(gomidi.Message) error, channel uint8, notes map[string]uint8, inner sequencer.Player) *Bridge {
	return &Bridge{
		inner: inner,
		send:  send,
		ch:    channel,
		notes: notes,
		log:   log.Default().WithPrefix("midi"),
	}
}

// Play implements sequencer.Player.
func (b *Bridge) Play(s *audio.Sample) {
	if b.inner != nil {
		b.inner.Play(s)
	}
	if s == nil {
		return
	}
	note, ok := b.notes[s.Name()]
	if !ok {
		return
	}
	if err := b.send(gomidi.NoteOn(b.ch, note, noteVelocity)); err != nil {
		b.log.Warn("note on failed", "note", note, "err", err)
		return
	}
	go func(send func(gomidi.Message) error, ch, n uint8) {
		time.Sleep(noteLength)
		send(gomidi.NoteOff(ch, n))
	}(b.send, b.ch, note)
}

// Close releases the MIDI driver.
func (b *Bridge) Close() {
	gomidi.CloseDriver()
}

// Ports lists the MIDI out ports visible to the driver.
func Ports() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}
