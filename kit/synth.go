package kit

import (
	"math"
	"time"

	"github.com/gopxl/beep"

	"beatbox/audio"
)

// Default returns the built-in synthesized kit, so the sequencer runs
// with no sample files on disk. Notes follow the General MIDI drum map.
func Default(rate beep.SampleRate) *Kit {
	return &Kit{
		Name: "synth",
		Sounds: []Sound{
			{Name: "KICK", Note: 36, Sample: kick(rate)},
			{Name: "SNARE", Note: 38, Sample: snare(rate)},
			{Name: "CLAP", Note: 39, Sample: clap(rate)},
			{Name: "CLHAT", Note: 42, Sample: hat(rate, false)},
			{Name: "OPHAT", Note: 46, Sample: hat(rate, true)},
			{Name: "LTOM", Note: 41, Sample: tom(rate, "LTOM", 110)},
			{Name: "HTOM", Note: 45, Sample: tom(rate, "HTOM", 168)},
			{Name: "COWBELL", Note: 56, Sample: cowbell(rate)},
		},
	}
}

// render evaluates gen at every frame time across the given length.
func render(rate beep.SampleRate, d time.Duration, gen func(t float64) float64) []float64 {
	out := make([]float64, rate.N(d))
	for i := range out {
		out[i] = gen(float64(i) / float64(rate))
	}
	return out
}

func kick(rate beep.SampleRate) *audio.Sample {
	out := render(rate, 350*time.Millisecond, func(t float64) float64 {
		// Pitch sweeps down as the phase integral flattens out.
		phase := 2 * math.Pi * 160 / 9 * (1 - math.Exp(-t*9))
		body := math.Sin(phase) * math.Exp(-t*16) * 0.9
		click := math.Sin(2*math.Pi*1900*t) * math.Exp(-t*220) * 0.2
		return softSat(body + click)
	})
	return audio.FromFloats("KICK", out, rate)
}

// snare layers a tonal body and a noise burst, summed with saturation
// in the 16-bit domain.
func snare(rate beep.SampleRate) *audio.Sample {
	const d = 220 * time.Millisecond
	tone := render(rate, d, func(t float64) float64 {
		env := math.Exp(-t * 24)
		return (math.Sin(2*math.Pi*190*t)*0.3 + math.Sin(2*math.Pi*340*t)*0.12) * env
	})
	seed := uint64(0x5eed)
	noise := render(rate, d, func(t float64) float64 {
		return noiseSample(&seed) * math.Exp(-t*28) * 0.6
	})

	tonePCM := audio.FloatsToPCM(tone)
	noisePCM := audio.FloatsToPCM(noise)
	pcm := make([]int16, len(tonePCM))
	for i := range pcm {
		pcm[i] = audio.Sum16(tonePCM[i], noisePCM[i])
	}
	return audio.NewSample("SNARE", pcm, rate)
}

func clap(rate beep.SampleRate) *audio.Sample {
	seed := uint64(0xc1a9)
	out := render(rate, 250*time.Millisecond, func(t float64) float64 {
		// Three 11ms retriggers, then the tail rings out.
		env := math.Exp(-t * 18)
		if t < 0.033 {
			env = math.Exp(-math.Mod(t, 0.011) * 120)
		}
		return softSat(noiseSample(&seed) * env * 0.7)
	})
	return audio.FromFloats("CLAP", out, rate)
}

func hat(rate beep.SampleRate, open bool) *audio.Sample {
	name, decay, d := "CLHAT", 46.0, 120*time.Millisecond
	if open {
		name, decay, d = "OPHAT", 13.0, 400*time.Millisecond
	}
	seed := uint64(0x4a7)
	out := render(rate, d, func(t float64) float64 {
		metal := math.Sin(2*math.Pi*7300*t) + math.Sin(2*math.Pi*9200*t)*0.6
		s := (noiseSample(&seed)*0.8 + metal*0.2) * math.Exp(-t*decay) * 0.5
		return softSat(s)
	})
	return audio.FromFloats(name, out, rate)
}

func tom(rate beep.SampleRate, name string, freq float64) *audio.Sample {
	out := render(rate, 300*time.Millisecond, func(t float64) float64 {
		phase := 2 * math.Pi * freq * t * (1 - 0.12*t)
		return softSat(math.Sin(phase) * math.Exp(-t*11) * 0.8)
	})
	return audio.FromFloats(name, out, rate)
}

func cowbell(rate beep.SampleRate) *audio.Sample {
	out := render(rate, 250*time.Millisecond, func(t float64) float64 {
		// Classic two-partial bell at 540 and 800 Hz.
		s := math.Sin(2*math.Pi*540*t)*0.5 + math.Sin(2*math.Pi*800*t)*0.4
		return softSat(s * math.Exp(-t*14))
	})
	return audio.FromFloats("COWBELL", out, rate)
}

// noiseSample advances an LCG and returns a value in [-1, 1].
func noiseSample(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// softSat bends peaks smoothly instead of hard clipping.
func softSat(x float64) float64 {
	if x > 1 {
		return 1 - 0.5/x
	}
	if x < -1 {
		return -1 + 0.5/(-x)
	}
	return x - x*x*x/3
}
