package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Defaults for a fresh install.
const (
	DefaultTempo  = 115.0
	MinTempo      = 80.0
	MaxTempo      = 160.0
	DefaultSteps  = 16
	DefaultRate   = 44100
	DefaultBuffer = 1024
	DefaultVolume = 1.0
)

// AudioConfig controls the output device
type AudioConfig struct {
	SampleRate int     `json:"sampleRate"`
	BufferSize int     `json:"bufferSize"`
	Volume     float64 `json:"volume"`
}

// SequencerConfig stores the timing setup
type SequencerConfig struct {
	Steps    int     `json:"steps"`
	Tempo    float64 `json:"tempo"`
	MinTempo float64 `json:"minTempo"`
	MaxTempo float64 `json:"maxTempo"`
}

// MIDIConfig names an optional hardware out port
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
	Channel  uint8  `json:"channel,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Audio     AudioConfig     `json:"audio"`
	Sequencer SequencerConfig `json:"sequencer"`
	MIDI      MIDIConfig      `json:"midi,omitempty"`
	KitDir    string          `json:"kitDir,omitempty"`
	Palette   string          `json:"palette,omitempty"`
	LogFile   string          `json:"logFile,omitempty"`
	LogLevel  string          `json:"logLevel,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: DefaultRate,
			BufferSize: DefaultBuffer,
			Volume:     DefaultVolume,
		},
		Sequencer: SequencerConfig{
			Steps:    DefaultSteps,
			Tempo:    DefaultTempo,
			MinTempo: MinTempo,
			MaxTempo: MaxTempo,
		},
		LogLevel: "info",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "beatbox"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Fields missing from the file keep their default values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.normalize()
	return cfg, nil
}

// normalize repairs out-of-range values from hand-edited files
func (c *Config) normalize() {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = DefaultRate
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = DefaultBuffer
	}
	if c.Audio.Volume < 0 {
		c.Audio.Volume = 0
	}
	if c.Audio.Volume > 1 {
		c.Audio.Volume = 1
	}

	if c.Sequencer.Steps < 1 {
		c.Sequencer.Steps = DefaultSteps
	}
	if c.Sequencer.MinTempo <= 0 {
		c.Sequencer.MinTempo = MinTempo
	}
	if c.Sequencer.MaxTempo < c.Sequencer.MinTempo {
		c.Sequencer.MaxTempo = c.Sequencer.MinTempo
	}
	if c.Sequencer.Tempo < c.Sequencer.MinTempo {
		c.Sequencer.Tempo = c.Sequencer.MinTempo
	}
	if c.Sequencer.Tempo > c.Sequencer.MaxTempo {
		c.Sequencer.Tempo = c.Sequencer.MaxTempo
	}

	if c.MIDI.Channel > 15 {
		c.MIDI.Channel = 0
	}
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
