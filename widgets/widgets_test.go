package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderBarFill(t *testing.T) {
	on := lipgloss.Color("#ff0000")
	off := lipgloss.Color("#333333")

	cases := []struct {
		level  float64
		filled int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{-0.3, 0},
		{1.7, 10},
		{0.74, 7},
	}
	for _, c := range cases {
		bar := RenderBar(c.level, 10, '■', '□', on, off)
		if got := strings.Count(bar, "■"); got != c.filled {
			t.Errorf("RenderBar(%v): %d filled cells, want %d", c.level, got, c.filled)
		}
		if got := strings.Count(bar, "□"); got != 10-c.filled {
			t.Errorf("RenderBar(%v): %d empty cells, want %d", c.level, got, 10-c.filled)
		}
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{
			Title: "Transport",
			Keys: []KeyBinding{
				{Key: "p", Desc: "play/stop"},
			},
		},
		{
			Keys: []KeyBinding{
				{Key: "q", Desc: "quit"},
			},
		},
	})

	want := "Transport\n  p            play/stop\n  q            quit"
	if out != want {
		t.Errorf("RenderKeyHelp = %q, want %q", out, want)
	}
}
