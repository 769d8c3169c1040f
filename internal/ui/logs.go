package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombefarm/flockdash/internal/logtail"
)

type logsLoadedMsg struct {
	entries []logtail.Entry
	err     error
}

// readLogsCmd reads the tail of flockdash's own log file.
func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logsLoadedMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLines)
		return logsLoadedMsg{entries: entries, err: err}
	}
}

// handleLogsKey processes keyboard input for the activity log.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewGrid
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, readLogsCmd(m.logPath)
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		return m, nil
	}

	// Manual scrolling pauses follow mode.
	if key.Matches(msg, m.keys.Up, m.keys.PrevPage) {
		m.logFollow = false
	}
	var cmd tea.Cmd
	m.logViewport, cmd = m.logViewport.Update(msg)
	return m, cmd
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-5, 1)
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	m.logViewport.SetContent(m.renderLogContent())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

// renderLogContent colours each entry by level.
func (m Model) renderLogContent() string {
	styles := m.theme.Styles()
	if m.logErr != nil {
		return styles.DangerText.Render("Cannot read log: " + m.logErr.Error())
	}
	if len(m.logEntries) == 0 {
		return styles.MutedText.Render("No log entries")
	}
	lines := make([]string, len(m.logEntries))
	for i, entry := range m.logEntries {
		lines[i] = levelStyle(styles, entry.Level).Render(entry.Format())
	}
	return strings.Join(lines, "\n")
}

func levelStyle(styles Styles, level string) lipgloss.Style {
	switch level {
	case "ERROR", "DPANIC", "PANIC", "FATAL":
		return styles.DangerText
	case "WARN":
		return styles.WarningText
	case "DEBUG":
		return styles.FaintText
	case "":
		return styles.MutedText
	default:
		return styles.Text
	}
}

// renderLogs renders the activity log box and its status line.
func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Render(m.logViewport.View())

	follow := "off"
	if m.logFollow {
		follow = "on"
	}
	status := fmt.Sprintf("Activity log %d entries • follow %s", len(m.logEntries), follow)
	if m.logPath != "" {
		status += " • " + truncate(m.logPath, 60)
	}
	return box + "\n" + styles.FaintText.Render(status)
}
