package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/digger/internal/core"
)

// extendedCodes holds the 256-color entries of colors beyond the basic 16.
var extendedCodes = map[core.Color]string{
	core.ColorOrange:   "208",
	core.ColorGray:     "245",
	core.ColorBrown:    "94",
	core.ColorDarkGray: "238",
}

var colorStyles = buildStyles()

// buildStyles maps core colors to lipgloss styles. Red through BrightWhite
// follow the terminal palette order, skipping bright black (8).
func buildStyles() map[core.Color]lipgloss.Style {
	styles := map[core.Color]lipgloss.Style{core.ColorDefault: lipgloss.NewStyle()}
	for c := core.ColorRed; c <= core.ColorDarkGray; c++ {
		code, ok := extendedCodes[c]
		if !ok {
			idx := int(c)
			if c >= core.ColorBrightRed {
				idx++
			}
			code = strconv.Itoa(idx)
		}
		styles[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(code))
	}
	return styles
}

// styleFor returns the style of a color, unknown colors render plain.
func styleFor(c core.Color) lipgloss.Style {
	if st, ok := colorStyles[c]; ok {
		return st
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen turns a screen into styled terminal output. Runs of cells
// sharing a color are styled together to keep escape sequences short.
func RenderScreen(s *core.Screen) string {
	lines := make([]string, s.Height())
	var run strings.Builder

	for y := range lines {
		var line strings.Builder
		runColor := s.GetCell(0, y).Color
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(styleFor(runColor).Render(run.String()))
				run.Reset()
			}
		}
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != runColor {
				flush()
				runColor = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}
