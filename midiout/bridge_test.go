package midiout

import (
	"errors"
	"sync"
	"testing"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"beatbox/audio"
)

type captureSend struct {
	mu   sync.Mutex
	err  error
	msgs []gomidi.Message
}

func (c *captureSend) send(msg gomidi.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return c.err
}

func (c *captureSend) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.msgs)
}

func (c *captureSend) at(i int) gomidi.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msgs[i]
}

type countPlayer struct {
	mu sync.Mutex
	n  int
}

func (p *countPlayer) Play(*audio.Sample) {
	p.mu.Lock()
	p.n++
	p.mu.Unlock()
}

func (p *countPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func testSample(name string) *audio.Sample {
	return audio.FromFloats(name, []float64{0.5}, 44100)
}

func TestPlaySendsNoteOnThenOff(t *testing.T) {
	out := &captureSend{}
	inner := &countPlayer{}
	b := newBridge(out.send, 9, map[string]uint8{"KICK": 36}, inner)

	b.Play(testSample("KICK"))

	if inner.count() != 1 {
		t.Fatalf("inner plays = %d, want 1", inner.count())
	}
	waitFor(t, time.Second, func() bool { return out.count() == 2 })

	var ch, key, vel uint8
	if !out.at(0).GetNoteOn(&ch, &key, &vel) {
		t.Fatalf("first message = %v, want note on", out.at(0))
	}
	if ch != 9 || key != 36 || vel != noteVelocity {
		t.Errorf("note on = ch %d key %d vel %d, want ch 9 key 36 vel %d", ch, key, vel, noteVelocity)
	}
	if !out.at(1).GetNoteOff(&ch, &key, &vel) {
		t.Fatalf("second message = %v, want note off", out.at(1))
	}
	if ch != 9 || key != 36 {
		t.Errorf("note off = ch %d key %d, want ch 9 key 36", ch, key)
	}
}

func TestUnmappedSoundStaysAudioOnly(t *testing.T) {
	out := &captureSend{}
	inner := &countPlayer{}
	b := newBridge(out.send, 0, map[string]uint8{"KICK": 36}, inner)

	b.Play(testSample("SHAKER"))
	b.Play(nil)

	if inner.count() != 2 {
		t.Fatalf("inner plays = %d, want 2", inner.count())
	}
	time.Sleep(2 * noteLength)
	if out.count() != 0 {
		t.Errorf("sent %d messages, want 0", out.count())
	}
}

func TestFailedNoteOnSkipsNoteOff(t *testing.T) {
	out := &captureSend{err: errors.New("port gone")}
	b := newBridge(out.send, 0, map[string]uint8{"KICK": 36}, nil)

	b.Play(testSample("KICK"))

	time.Sleep(2 * noteLength)
	if out.count() != 1 {
		t.Errorf("sent %d messages, want only the failed note on", out.count())
	}
}
