package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"

	"beatbox/audio"
	"beatbox/config"
	"beatbox/kit"
	"beatbox/midiout"
	"beatbox/sequencer"
	"beatbox/theme"
	"beatbox/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	th := theme.New(loadPalette(cfg.Palette))

	// Open the speaker before wiring anything that plays through it
	engine := audio.NewEngine(cfg.Audio.SampleRate, cfg.Audio.BufferSize)
	if err := engine.Start(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()
	engine.SetVolume(cfg.Audio.Volume)

	k := loadKit(cfg, engine.Rate())

	// Triggers go to the speaker, and to a MIDI port when one is configured
	var player sequencer.Player = engine
	if cfg.MIDI.PortName != "" {
		bridge, err := midiout.Open(cfg.MIDI.PortName, cfg.MIDI.Channel, k.NoteMap(), engine)
		if err != nil {
			log.Warn("midi bridge disabled", "err", err)
		} else {
			defer bridge.Close()
			player = bridge
		}
	}

	// The mixer clock publishes display steps; drop them if the UI lags
	steps := make(chan int, 8)
	mixer, err := sequencer.NewMixer(player, k.Samples(), sequencer.MixerConfig{
		BPM:    cfg.Sequencer.Tempo,
		MinBPM: cfg.Sequencer.MinTempo,
		Steps:  cfg.Sequencer.Steps,
		OnStep: func(step int) {
			select {
			case steps <- step:
			default:
			}
		},
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	mixer.Start()
	defer mixer.Close()

	m := tui.NewModel(mixer, engine, th, steps, cfg.Sequencer.MinTempo, cfg.Sequencer.MaxTempo)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	// Remember tempo and volume for the next launch
	cfg.Sequencer.Tempo = mixer.Tempo()
	cfg.Audio.Volume = engine.Volume()
	if err := cfg.Save(); err != nil {
		log.Warn("config not saved", "err", err)
	}
}

// setupLogging sends logs to the configured file. The terminal belongs
// to the TUI, so without a file they are discarded.
func setupLogging(cfg *config.Config) {
	logger := log.Default()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if cfg.LogFile == "" {
		logger.SetOutput(io.Discard)
		return
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return
	}
	logger.SetOutput(f)
}

func loadPalette(path string) *theme.Palette {
	if path == "" {
		return theme.Default()
	}
	p, err := theme.LoadGPL(path)
	if err != nil {
		log.Warn("palette not loaded", "path", path, "err", err)
		return theme.Default()
	}
	return p
}

func loadKit(cfg *config.Config, rate beep.SampleRate) *kit.Kit {
	if cfg.KitDir == "" {
		return kit.Default(rate)
	}
	k, err := kit.Load(cfg.KitDir, rate)
	if err != nil {
		log.Warn("kit not loaded, using built-in sounds", "dir", cfg.KitDir, "err", err)
		return kit.Default(rate)
	}
	return k
}
