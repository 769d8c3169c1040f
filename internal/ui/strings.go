package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// truncate shortens value to limit runes, ending in "..." when cut.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// flexWidths splits total across flex weights. Leftover cells go to the
// last column so the row always fills the width.
func flexWidths(flex []int, total, gap int) []int {
	widths := make([]int, len(flex))
	if len(flex) == 0 {
		return widths
	}
	avail := total - gap*(len(flex)-1)
	sum := 0
	for _, f := range flex {
		sum += max(f, 1)
	}
	used := 0
	for i, f := range flex {
		widths[i] = max(avail*max(f, 1)/sum, 1)
		used += widths[i]
	}
	if rest := avail - used; rest > 0 {
		widths[len(widths)-1] += rest
	}
	return widths
}
