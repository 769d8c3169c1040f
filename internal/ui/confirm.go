package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// confirmRequest is one pending yes/no question. reply is buffered so the UI
// never blocks answering it.
type confirmRequest struct {
	prompt string
	reply  chan bool
}

// promptConfirmer bridges the controller, which asks from a command
// goroutine, and the Bubble Tea loop, which owns the screen.
type promptConfirmer struct {
	requests chan confirmRequest
}

func newPromptConfirmer() *promptConfirmer {
	return &promptConfirmer{requests: make(chan confirmRequest)}
}

// Confirm shows prompt and blocks until the operator answers. A done ctx
// counts as "no".
func (c *promptConfirmer) Confirm(ctx context.Context, prompt string) bool {
	req := confirmRequest{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false
	}
	select {
	case ok := <-req.reply:
		return ok
	case <-ctx.Done():
		return false
	}
}

type confirmRequestMsg confirmRequest

// waitForPrompt delivers the next confirmation request to the UI loop. The
// model re-arms it after every request.
func waitForPrompt(c *promptConfirmer) tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-c.requests)
	}
}

// confirmModal renders one request and sends the answer.
type confirmModal struct {
	req confirmRequest
}

func newConfirmModal(req confirmRequest) confirmModal {
	return confirmModal{req: req}
}

func (c confirmModal) answer(ok bool) {
	select {
	case c.req.reply <- ok:
	default:
	}
}

func (c confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(keyMsg, keys.Yes):
		c.answer(true)
		return c, nil, true
	case key.Matches(keyMsg, keys.No):
		c.answer(false)
		return c, nil, true
	}
	return c, nil, false
}

func (c confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.WarningText.Bold(true).Render("Please confirm"))
	b.WriteString("\n\n")
	b.WriteString(styles.Text.Render(strings.TrimSpace(c.req.prompt)))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y") + styles.MutedText.Render(": Yes   ") +
		styles.AccentText.Render("n") + styles.MutedText.Render(": No"))
	return placeModal(theme, width, height, 56, theme.Warning, b.String())
}
