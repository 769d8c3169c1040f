package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kombefarm/flockdash/internal/dashboard"
	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/poultry"
	"github.com/kombefarm/flockdash/internal/state"
)

// submitFormMsg asks the model to start a submit.
type submitFormMsg struct{}

// fieldPlaceholders hint at the expected input.
var fieldPlaceholders = map[string]string{
	poultry.FieldFlockName:  "e.g. Batch A layers",
	poultry.FieldNbrOfBirds: "whole number",
	poultry.FieldAvgWeight:  "kg, e.g. 1.8",
	poultry.FieldPurpose:    "Meat, Eggs, ...",
	poultry.FieldReduction:  "whole number",
	poultry.FieldFlockType:  "Broiler, Kuroiler, ...",
	poultry.FieldStockDate:  "YYYY-MM-DD",
	poultry.FieldMortality:  "whole number",
	poultry.FieldBatch:      "label",
	poultry.FieldSoldOut:    "true or false",
}

// formModal is the create/update dialog. Every edit goes to the controller
// through SetField so the store's form stays the single copy.
type formModal struct {
	ctrl   *dashboard.Controller
	id     int64
	title  string
	fields []string
	inputs []textinput.Model
	focus  int

	formError  string
	submitting bool
}

func newFormModal(ctrl *dashboard.Controller, form state.FormState) formModal {
	fields := append([]string(nil), state.TemplateFields...)
	if form.HasID() {
		fields = append(fields, poultry.FieldSoldOut)
	}
	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = fieldPlaceholders[field]
		in.CharLimit = 64
		in.Width = 30
		in.SetValue(form.Value(field))
		if i == 0 {
			in.Focus()
		}
		inputs[i] = in
	}
	title := "New flock"
	if form.HasID() {
		rec := poultry.FlockRecord{
			FlockID:   form.ID,
			FlockName: form.Value(poultry.FieldFlockName),
			FlockType: form.Value(poultry.FieldFlockType),
		}
		title = "Update flock " + rec.Label()
	}
	return formModal{ctrl: ctrl, id: form.ID, title: title, fields: fields, inputs: inputs}
}

// sync copies the store's inline error and busy flag into the dialog.
func (f formModal) sync(snap state.Snapshot) formModal {
	f.formError = snap.FormError
	f.submitting = snap.Busy()
	return f
}

func (f formModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			_ = f.ctrl.Close()
			return f, nil, true
		case key.Matches(keyMsg, keys.Confirm):
			return f, func() tea.Msg { return submitFormMsg{} }, false
		case key.Matches(keyMsg, keys.Tab):
			f.moveFocus(1)
			return f, nil, false
		case key.Matches(keyMsg, keys.ShiftTab):
			f.moveFocus(-1)
			return f, nil, false
		}
	}

	before := f.inputs[f.focus].Value()
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	if after := f.inputs[f.focus].Value(); after != before {
		_ = f.ctrl.SetField(f.fields[f.focus], after)
		f.formError = ""
	}
	return f, cmd, false
}

func (f *formModal) moveFocus(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

func (f formModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(f.title))
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render(strings.Repeat("─", 44)))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, field := range f.fields {
		labelWidth = max(labelWidth, lipgloss.Width(grid.HeaderFromField(field)))
	}
	for i, field := range f.fields {
		label := fit(grid.HeaderFromField(field), labelWidth+2)
		if i == f.focus {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	if f.formError != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.formError))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if f.submitting {
		b.WriteString(styles.WarningText.Render("Saving..."))
	} else {
		b.WriteString(styles.FaintText.Render("Enter: Save  •  Tab: Next field  •  Esc: Cancel"))
	}
	return placeModal(theme, width, height, 56, theme.Accent, b.String())
}

// applyFilterMsg sets the filter text for one column.
type applyFilterMsg struct {
	field string
	text  string
}

// filterModal edits the floating filter of one column.
type filterModal struct {
	column grid.Column
	input  textinput.Model
}

func newFilterModal(col grid.Column, current string) filterModal {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "contains..."
	in.CharLimit = 64
	in.Width = 30
	in.SetValue(current)
	in.Focus()
	return filterModal{column: col, input: in}
}

func (f filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, keys.Escape):
			return f, nil, true
		case key.Matches(keyMsg, keys.Confirm):
			applied := applyFilterMsg{field: f.column.Field, text: f.input.Value()}
			return f, func() tea.Msg { return applied }, true
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd, false
}

func (f filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Filter " + f.column.Header))
	b.WriteString("\n\n")
	b.WriteString(f.input.View())
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  empty clears"))
	return placeModal(theme, width, height, 44, theme.Accent, b.String())
}
