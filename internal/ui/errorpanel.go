package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderErrorPanel replaces the whole dashboard once a backend call has
// failed. Only quit and the full reload remain.
func (m Model) renderErrorPanel() string {
	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("Something went wrong"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(m.snapshot.LastError))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("ctrl+r") + styles.MutedText.Render(": Reload   ") +
		styles.AccentText.Render("q") + styles.MutedText.Render(": Quit"))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Danger)).
		Padding(1, 2).
		Width(min(max(m.width-4, 20), 80)).
		Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
