package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	reportTitle    = "Kombe Animal Farm Stock Report"
	reportSubtitle = "ANIMAL PRODUCTION"
)

// renderHeader renders the report title, the signed-in user and the row
// summary.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render(reportTitle, styles.Title)}
	if !compact {
		parts = append(parts, bg.Render(reportSubtitle, styles.MutedText.Bold(true)))
	}

	signedIn := m.ctrl.User()
	user := bg.Render("User:", styles.MutedText) + bg.Space() + bg.Render(signedIn.DisplayName(), styles.Text)
	if claims, err := signedIn.Claims(); err == nil && claims.Expired(time.Now()) {
		user += bg.Space() + bg.Render("(token expired)", styles.WarningText)
	}
	parts = append(parts, user)

	parts = append(parts,
		bg.Render("Flocks:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Rows)), styles.Text),
	)

	switch {
	case m.snapshot.Submitting:
		parts = append(parts, bg.Render(m.spinner.View()+" Saving", styles.WarningText))
	case m.snapshot.Deleting:
		parts = append(parts, bg.Render(m.spinner.View()+" Deleting", styles.WarningText))
	case m.snapshot.Loading:
		parts = append(parts, bg.Render(m.spinner.View()+" Loading", styles.InfoText))
	}

	if ts := formatUpdated(m.snapshot.LastUpdated, time.Now()); ts != "" {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(bg.Join(parts, "  "))
}

// formatUpdated renders the last fetch time with a relative hint.
func formatUpdated(at, now time.Time) string {
	if at.IsZero() {
		return ""
	}
	ts := at.Format("15:04:05")
	since := now.Sub(at)
	switch {
	case since < time.Minute:
		ts += " (now)"
	case since < time.Hour:
		ts += fmt.Sprintf(" (%dm ago)", int(since.Minutes()))
	case since < 24*time.Hour:
		ts += fmt.Sprintf(" (%dh ago)", int(since.Hours()))
	}
	return ts
}

// renderCommandBar renders the key hints for the active view.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewLogs:
		follow := "Follow"
		if m.logFollow {
			follow = "Pause"
		}
		commands = []cmd{
			{"Space", follow},
			{"r", "Re-read"},
			{"j/k", "Scroll"},
			{"esc", "Grid"},
			{"?", "More"},
		}
	case ViewDetail:
		commands = []cmd{
			{"esc", "Grid"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"n", "New"},
			{"u", "Update"},
			{"v", "View"},
			{"d", "Delete"},
			{"s", "Sort"},
			{"/", "Filter"},
			{"x/X", "Export"},
			{"l", "Log"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments, bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments, bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}
