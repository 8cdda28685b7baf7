package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"beatbox/audio"
	"beatbox/sequencer"
	"beatbox/theme"
	"beatbox/widgets"
)

const (
	tempoStep  = 5
	volumeStep = 0.1
	barWidth   = 10
	groupSize  = 4 // visual gap between step groups
)

type Model struct {
	Mixer  *sequencer.Mixer
	Engine *audio.Engine
	Theme  *theme.Theme

	steps    <-chan int
	step     int
	row      int // selected track
	col      int // step cursor
	minTempo float64
	maxTempo float64
	quitting bool
}

// StepMsg carries the display step published by the mixer clock.
type StepMsg int

func NewModel(mixer *sequencer.Mixer, engine *audio.Engine, th *theme.Theme, steps <-chan int, minTempo, maxTempo float64) Model {
	return Model{
		Mixer:    mixer,
		Engine:   engine,
		Theme:    th,
		steps:    steps,
		minTempo: minTempo,
		maxTempo: maxTempo,
	}
}

func ListenForSteps(steps <-chan int) tea.Cmd {
	return func() tea.Msg {
		return StepMsg(<-steps)
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForSteps(m.steps)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			m.Mixer.Stop()
			return m, tea.Quit

		case "p":
			if m.Mixer.Playing() {
				m.Mixer.Stop()
			} else {
				m.Mixer.Play()
			}

		case " ":
			if trk := m.Mixer.Track(m.row); trk != nil {
				pattern := trk.Pattern()
				pattern[m.col] = !pattern[m.col]
				m.Mixer.SetTrackSteps(m.row, pattern)
			}

		case "c":
			m.Mixer.SetTrackSteps(m.row, sequencer.NewPattern(m.Mixer.NumSteps()))

		case "h", "left":
			if m.col > 0 {
				m.col--
			}
		case "l", "right":
			if m.col < m.Mixer.NumSteps()-1 {
				m.col++
			}
		case "j", "down":
			if m.row < m.Mixer.NumTracks()-1 {
				m.row++
			}
		case "k", "up":
			if m.row > 0 {
				m.row--
			}

		case "+", "=":
			tempo := m.Mixer.Tempo() + tempoStep
			if tempo > m.maxTempo {
				tempo = m.maxTempo
			}
			m.Mixer.SetTempo(tempo)

		case "-", "_":
			tempo := m.Mixer.Tempo() - tempoStep
			if tempo < m.minTempo {
				tempo = m.minTempo
			}
			m.Mixer.SetTempo(tempo)

		case "V":
			level := m.Engine.Volume() + volumeStep
			if level > 1 {
				level = 1
			}
			m.Engine.SetVolume(level)

		case "v":
			level := m.Engine.Volume() - volumeStep
			if level < 0 {
				level = 0
			}
			m.Engine.SetVolume(level)

		case "enter":
			if trk := m.Mixer.Track(m.row); trk != nil {
				m.Engine.Play(trk.Sample())
			}
		}

	case StepMsg:
		m.step = int(msg)
		return m, ListenForSteps(m.steps)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	state := m.Mixer.GetState()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())

	playState := "STOP"
	if state.Playing {
		playState = "PLAY"
	}
	header := headerStyle.Render(fmt.Sprintf("beatbox  %s  %3.0fbpm  step:%02d", playState, state.Tempo, m.step))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n\n")
	out.WriteString(m.renderIndicator(state.Steps))
	out.WriteString("\n")
	out.WriteString(m.renderGrid(state))
	out.WriteString("\n")
	out.WriteString("vol ")
	out.WriteString(widgets.RenderBar(m.Engine.Volume(), barWidth, m.Theme.Symbols.Solid, m.Theme.Symbols.Empty, m.Theme.Active(), m.Theme.Muted()))
	out.WriteString("\n\n")
	out.WriteString(dimStyle.Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "space", Desc: "toggle step on/off"},
			{Key: "h / l", Desc: "move cursor left/right"},
			{Key: "j / k", Desc: "select sound down/up"},
			{Key: "p", Desc: "play / stop"},
			{Key: "+ / -", Desc: "tempo up/down"},
			{Key: "V / v", Desc: "volume up/down"},
			{Key: "enter", Desc: "preview sound"},
			{Key: "c", Desc: "clear current sound"},
			{Key: "q", Desc: "quit"},
		}},
	})))

	return out.String()
}

// renderIndicator draws the moving position marker above the grid.
func (m Model) renderIndicator(steps int) string {
	var line strings.Builder
	line.WriteString(strings.Repeat(" ", 12))
	for s := 0; s < steps; s++ {
		if s > 0 && s%groupSize == 0 {
			line.WriteString(" ")
		}
		switch {
		case s == m.step && s == m.col:
			line.WriteRune(m.Theme.Symbols.CursorPlayhead)
		case s == m.step:
			line.WriteRune(m.Theme.Symbols.StepPlayhead)
		default:
			line.WriteRune(m.Theme.Symbols.StepEmpty)
		}
	}
	return line.String()
}

func (m Model) renderGrid(state sequencer.MixerState) string {
	var out strings.Builder
	for t, ts := range state.Tracks {
		out.WriteString(fmt.Sprintf("%2d %-8s ", t+1, ts.Name))

		for s := 0; s < len(ts.Steps); s++ {
			if s > 0 && s%groupSize == 0 {
				out.WriteString(" ")
			}
			isCursor := t == m.row && s == m.col

			var char rune
			if ts.Steps[s] {
				if isCursor {
					char = m.Theme.Symbols.CursorActive
				} else {
					char = m.Theme.Symbols.StepActive
				}
			} else {
				if isCursor {
					char = m.Theme.Symbols.CursorEmpty
				} else {
					char = m.Theme.Symbols.StepEmpty
				}
			}
			out.WriteRune(char)
		}
		out.WriteString("\n")
	}
	return out.String()
}
