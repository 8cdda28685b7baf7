package kit

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"beatbox/audio"
)

const testRate = beep.SampleRate(44100)

func TestDefaultKit(t *testing.T) {
	k := Default(testRate)
	if k.Name != "synth" {
		t.Errorf("Name = %q, want %q", k.Name, "synth")
	}

	want := []struct {
		name string
		note uint8
	}{
		{"KICK", 36},
		{"SNARE", 38},
		{"CLAP", 39},
		{"CLHAT", 42},
		{"OPHAT", 46},
		{"LTOM", 41},
		{"HTOM", 45},
		{"COWBELL", 56},
	}
	if len(k.Sounds) != len(want) {
		t.Fatalf("len(Sounds) = %d, want %d", len(k.Sounds), len(want))
	}
	for i, w := range want {
		s := k.Sounds[i]
		if s.Name != w.name {
			t.Errorf("Sounds[%d].Name = %q, want %q", i, s.Name, w.name)
		}
		if s.Note != w.note {
			t.Errorf("Sounds[%d].Note = %d, want %d", i, s.Note, w.note)
		}
		if s.Sample == nil || s.Sample.Len() == 0 {
			t.Fatalf("Sounds[%d] has no audio", i)
		}
		if s.Sample.Rate() != testRate {
			t.Errorf("Sounds[%d].Rate = %d, want %d", i, s.Sample.Rate(), testRate)
		}
	}

	samples := k.Samples()
	if len(samples) != len(want) {
		t.Fatalf("len(Samples) = %d, want %d", len(samples), len(want))
	}
	for i, w := range want {
		if samples[i].Name() != w.name {
			t.Errorf("Samples[%d].Name = %q, want %q", i, samples[i].Name(), w.name)
		}
	}
}

func TestDefaultKitIsAudible(t *testing.T) {
	for _, s := range Default(testRate).Sounds {
		peak := int16(0)
		for _, v := range s.Sample.PCM() {
			if v > peak {
				peak = v
			}
			if -v > peak {
				peak = -v
			}
		}
		if peak < 1000 {
			t.Errorf("%s: peak = %d, too quiet", s.Name, peak)
		}
	}
}

func TestNoteMapSkipsUnmapped(t *testing.T) {
	k := &Kit{Sounds: []Sound{
		{Name: "KICK", Note: 36},
		{Name: "PERC", Note: 0},
	}}
	notes := k.NoteMap()
	if notes["KICK"] != 36 {
		t.Errorf(`notes["KICK"] = %d, want 36`, notes["KICK"])
	}
	if _, ok := notes["PERC"]; ok {
		t.Error("unmapped sound present in note map")
	}
}

func writeWAV(t *testing.T, path string, s *audio.Sample) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	format := beep.Format{SampleRate: s.Rate(), NumChannels: 1, Precision: 2}
	if err := wav.Encode(f, s.Streamer(), format); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func writeManifest(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := make([]float64, 64)
	for i := range src {
		src[i] = float64(i%16-8) / 8
	}
	orig := audio.FromFloats("KICK", src, testRate)
	writeWAV(t, filepath.Join(dir, "kick.wav"), orig)
	writeManifest(t, dir, "name: test\nsounds:\n  - name: KICK\n    file: kick.wav\n    note: 36\n")

	k, err := Load(dir, testRate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k.Name != "test" {
		t.Errorf("Name = %q, want %q", k.Name, "test")
	}
	if len(k.Sounds) != 1 {
		t.Fatalf("len(Sounds) = %d, want 1", len(k.Sounds))
	}
	if k.NoteMap()["KICK"] != 36 {
		t.Errorf(`NoteMap()["KICK"] = %d, want 36`, k.NoteMap()["KICK"])
	}

	got := k.Sounds[0].Sample
	if got.Len() != orig.Len() {
		t.Fatalf("frames = %d, want %d", got.Len(), orig.Len())
	}
	// One code off at most from the encode/decode quantization.
	for i := range got.PCM() {
		if diff := int(got.PCM()[i]) - int(orig.PCM()[i]); diff < -4 || diff > 4 {
			t.Fatalf("frame %d = %d, want %d", i, got.PCM()[i], orig.PCM()[i])
		}
	}
}

func TestLoadResamplesToEngineRate(t *testing.T) {
	dir := t.TempDir()
	const fileRate = beep.SampleRate(22050)
	src := make([]float64, fileRate.N(100*time.Millisecond))
	for i := range src {
		src[i] = 0.5 * math.Sin(2*math.Pi*220*float64(i)/float64(fileRate))
	}
	writeWAV(t, filepath.Join(dir, "tone.wav"), audio.FromFloats("TONE", src, fileRate))
	writeManifest(t, dir, "name: test\nsounds:\n  - name: TONE\n    file: tone.wav\n")

	k, err := Load(dir, testRate)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := k.Sounds[0].Sample
	if got.Rate() != testRate {
		t.Errorf("Rate = %d, want %d", got.Rate(), testRate)
	}
	want := 2 * len(src)
	if got.Len() < want*9/10 || got.Len() > want*11/10 {
		t.Errorf("frames = %d, want about %d", got.Len(), want)
	}
	if k.Sounds[0].Note != 0 {
		t.Errorf("Note = %d, want 0 when omitted", k.Sounds[0].Note)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing manifest", func(t *testing.T) {
		if _, err := Load(t.TempDir(), testRate); err == nil {
			t.Fatal("want error for missing manifest")
		}
	})

	t.Run("bad yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "sounds: [broken\n")
		if _, err := Load(dir, testRate); err == nil {
			t.Fatal("want error for unparsable manifest")
		}
	})

	t.Run("no sounds", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "name: empty\n")
		if _, err := Load(dir, testRate); err == nil {
			t.Fatal("want error for empty kit")
		}
	})

	t.Run("missing wav", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, "name: test\nsounds:\n  - name: GHOST\n    file: ghost.wav\n")
		if _, err := Load(dir, testRate); err == nil {
			t.Fatal("want error for missing sample file")
		}
	})
}
