package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderCell renders a single colored cell
func RenderCell(r rune, color lipgloss.Color) string {
	style := lipgloss.NewStyle().Foreground(color)
	return style.Render(string(r))
}

// RenderBar renders a horizontal level bar filled to level (0-1)
func RenderBar(level float64, width int, filled, empty rune, on, off lipgloss.Color) string {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	n := int(level*float64(width) + 0.5)

	var out strings.Builder
	for i := 0; i < width; i++ {
		if i < n {
			out.WriteString(RenderCell(filled, on))
		} else {
			out.WriteString(RenderCell(empty, off))
		}
	}
	return out.String()
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
