package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail renders the flock detail route. Everything shown comes from
// the path itself, as the route carries the values.
func (m Model) renderDetail() string {
	styles := m.theme.Styles()
	d := m.detail

	rows := []struct{ label, value string }{
		{"Flock Id", strconv.FormatInt(d.FlockID, 10)},
		{"Breed", d.FlockType},
		{"Stock Date", d.StockDate},
		{"Purpose", d.Purpose},
		{"Remaining", d.StockRemaining},
		{"Days", d.NbrOfDays},
		{"Reduction", d.Reduction},
		{"Mortality", d.Mortality},
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("Flock details"))
	b.WriteString("\n\n")
	for _, row := range rows {
		value := row.value
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		b.WriteString(styles.MutedText.Render(fit(row.label, 12)))
		b.WriteString(styles.Text.Render(value))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(m.detailPath))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2).
		Width(max(m.width-2, 20)).
		Render(b.String())
	return box
}
