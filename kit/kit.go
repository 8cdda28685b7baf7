// Package kit loads and synthesizes the drum sounds a session plays.
package kit

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"gopkg.in/yaml.v3"

	"beatbox/audio"
)

const manifestName = "kit.yaml"

// Sound is one named voice of a kit. Note is the General MIDI drum
// note used by the MIDI bridge; 0 means unmapped.
type Sound struct {
	Name   string
	Note   uint8
	Sample *audio.Sample
}

// Kit is an ordered set of drum sounds. Order fixes the track order in
// the sequencer.
type Kit struct {
	Name   string
	Sounds []Sound
}

// Samples returns the sounds' buffers in kit order.
func (k *Kit) Samples() []*audio.Sample {
	out := make([]*audio.Sample, len(k.Sounds))
	for i, s := range k.Sounds {
		out[i] = s.Sample
	}
	return out
}

// NoteMap returns sound name to MIDI note, skipping unmapped sounds.
func (k *Kit) NoteMap() map[string]uint8 {
	m := make(map[string]uint8, len(k.Sounds))
	for _, s := range k.Sounds {
		if s.Note != 0 {
			m[s.Name] = s.Note
		}
	}
	return m
}

// manifest is the on-disk kit description, kit.yaml in the kit dir.
type manifest struct {
	Name   string `yaml:"name"`
	Sounds []struct {
		Name string `yaml:"name"`
		File string `yaml:"file"`
		Note uint8  `yaml:"note,omitempty"`
	} `yaml:"sounds"`
}

// Load reads a kit directory: kit.yaml plus one WAV per sound. Stereo
// files fold to mono and everything is resampled to rate, so the
// sequencer only ever sees uniform buffers.
func Load(dir string, rate beep.SampleRate) (*Kit, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("read kit manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse kit manifest: %w", err)
	}
	if len(m.Sounds) == 0 {
		return nil, fmt.Errorf("kit %q has no sounds", m.Name)
	}

	logger := log.Default().WithPrefix("kit")
	k := &Kit{Name: m.Name}
	for _, s := range m.Sounds {
		sample, err := loadWAV(filepath.Join(dir, s.File), s.Name, rate)
		if err != nil {
			return nil, fmt.Errorf("sound %q: %w", s.Name, err)
		}
		logger.Debug("loaded sound", "name", s.Name, "frames", sample.Len())
		k.Sounds = append(k.Sounds, Sound{Name: s.Name, Note: s.Note, Sample: sample})
	}
	logger.Info("kit loaded", "name", k.Name, "sounds", len(k.Sounds))
	return k, nil
}

func loadWAV(path, name string, rate beep.SampleRate) (*audio.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer streamer.Close()

	var src beep.Streamer = streamer
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, streamer)
	}
	return audio.FromFloats(name, drainMono(src), rate), nil
}

// drainMono pulls a streamer dry, averaging the channels.
func drainMono(s beep.Streamer) []float64 {
	var out []float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			out = append(out, (buf[i][0]+buf[i][1])/2)
		}
		if !ok {
			return out
		}
	}
}
