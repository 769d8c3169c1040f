package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/poultry"
)

// handleGridKey processes keyboard input for the grid view.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := m.grid.Page()
	cols := m.grid.VisibleColumns()

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
			m.logCellSelection()
		}
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(page)-1 {
			m.selectedRow++
			m.logCellSelection()
		}
	case key.Matches(msg, m.keys.Left):
		if m.selectedCol > 0 {
			m.selectedCol--
			m.logCellSelection()
		}
	case key.Matches(msg, m.keys.Right):
		if m.selectedCol < len(cols)-1 {
			m.selectedCol++
			m.logCellSelection()
		}
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = max(len(page)-1, 0)
	case key.Matches(msg, m.keys.NextPage):
		if m.grid.NextPage() {
			m.selectedRow = 0
		}
	case key.Matches(msg, m.keys.PrevPage):
		if m.grid.PrevPage() {
			m.selectedRow = 0
		}
	case key.Matches(msg, m.keys.PageSize):
		return m, m.cyclePageSize()

	case key.Matches(msg, m.keys.Sort):
		col, ok := m.selectedColumn()
		if !ok || !col.Sortable || !m.grid.ToggleSort(col.Field) {
			return m, m.setStatus("This column cannot be sorted", true)
		}
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Filter):
		col, ok := m.selectedColumn()
		if !ok || !col.Filterable {
			return m, m.setStatus("This column cannot be filtered", true)
		}
		m.modal = newFilterModal(col, m.grid.Filters()[col.Field])
	case key.Matches(msg, m.keys.ClearFilt):
		m.grid.ClearFilters()
		m.selectedRow = 0

	case key.Matches(msg, m.keys.Create):
		if err := m.ctrl.OpenCreate(); err != nil {
			return m, nil
		}
		m.refresh()
		m.modal = newFormModal(m.ctrl, m.snapshot.Form)
	case key.Matches(msg, m.keys.Update):
		rec, ok := m.selectedRecord()
		if !ok || m.ctrl.OpenUpdate(rec) != nil {
			return m, nil
		}
		m.refresh()
		m.modal = newFormModal(m.ctrl, m.snapshot.Form)
	case key.Matches(msg, m.keys.Detail):
		if rec, ok := m.selectedRecord(); ok {
			return m, navigateCmd(m.ctrl, rec)
		}
	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selectedRecord(); ok {
			return m, deleteCmd(m.ctx, m.ctrl, rec.FlockID, m.confirmer)
		}
	case key.Matches(msg, m.keys.ExportCSV):
		return m, exportCmd(m.ctrl, m.exportDir, grid.FormatCSV, time.Now())
	case key.Matches(msg, m.keys.ExportXLSX):
		return m, exportCmd(m.ctrl, m.exportDir, grid.FormatXLSX, time.Now())

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, readLogsCmd(m.logPath)
	}
	return m, nil
}

func (m Model) selectedRecord() (poultry.FlockRecord, bool) {
	page := m.grid.Page()
	if m.selectedRow < 0 || m.selectedRow >= len(page) {
		return poultry.FlockRecord{}, false
	}
	return page[m.selectedRow], true
}

func (m Model) selectedColumn() (grid.Column, bool) {
	cols := m.grid.VisibleColumns()
	if m.selectedCol < 0 || m.selectedCol >= len(cols) {
		return grid.Column{}, false
	}
	return cols[m.selectedCol], true
}

func (m *Model) clampSelection() {
	m.selectedRow = min(m.selectedRow, max(len(m.grid.Page())-1, 0))
	m.selectedCol = min(m.selectedCol, max(len(m.grid.VisibleColumns())-1, 0))
}

// logCellSelection records which cell the cursor landed on.
func (m Model) logCellSelection() {
	rec, ok := m.selectedRecord()
	if !ok {
		return
	}
	col, ok := m.selectedColumn()
	if !ok {
		return
	}
	m.logger.Debug("cell selected",
		zap.Int64("flock_id", rec.FlockID),
		zap.String("field", col.Field),
		zap.String("value", m.grid.Cell(rec, col)),
	)
}

// renderGrid renders the column header, the floating filter row, the current
// page and the paging footer.
func (m Model) renderGrid() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Background)
	width := m.width
	bodyHeight := max(m.height-gridChrome, 1)

	if m.snapshot.Loading && m.grid.Total() == 0 {
		return bg.FillLine(bg.Render(m.spinner.View()+" Loading flocks...", styles.MutedText), width)
	}

	cols := m.grid.VisibleColumns()
	flex := make([]int, len(cols))
	for i, col := range cols {
		flex[i] = col.Flex
	}
	widths := flexWidths(flex, width, columnGap)
	sort := m.grid.Sort()
	filters := m.grid.Filters()
	gap := strings.Repeat(" ", columnGap)

	var header, filterRow []string
	for i, col := range cols {
		label := col.Header
		if sort.Field == col.Field {
			switch sort.Direction {
			case grid.Ascending:
				label += " ▲"
			case grid.Descending:
				label += " ▼"
			}
		}
		style := styles.MutedText.Bold(true)
		if i == m.selectedCol {
			style = styles.AccentText.Bold(true)
		}
		header = append(header, style.Render(fit(label, widths[i])))

		cell := ""
		if col.FloatingFilter && col.Filterable {
			cell = "·"
			if text := filters[col.Field]; text != "" {
				cell = "~" + text
			}
		}
		filterRow = append(filterRow, styles.FaintText.Render(fit(cell, widths[i])))
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, gap))
	b.WriteString("\n")
	b.WriteString(strings.Join(filterRow, gap))
	b.WriteString("\n")

	page := m.grid.Page()
	if len(page) == 0 {
		empty := "No flocks yet. Press n to add one."
		if len(filters) > 0 {
			empty = "No flocks match the filters. Press c to clear them."
		}
		b.WriteString(styles.MutedText.Render(empty))
		b.WriteString(strings.Repeat("\n", bodyHeight))
	} else {
		offset := max(m.selectedRow-bodyHeight+1, 0)
		end := min(offset+bodyHeight, len(page))
		for r := offset; r < end; r++ {
			b.WriteString(m.renderRow(page[r], r == m.selectedRow, cols, widths, styles))
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat("\n", bodyHeight-(end-offset)))
	}

	b.WriteString(m.renderGridFooter(styles, bg))
	return b.String()
}

func (m Model) renderRow(rec poultry.FlockRecord, selected bool, cols []grid.Column, widths []int, styles Styles) string {
	cells := make([]string, len(cols))
	for i, col := range cols {
		text := fit(m.grid.Cell(rec, col), widths[i])
		style := styles.Text
		switch {
		case col.IsAction():
			style = styles.AccentText
		case col.Field == poultry.FieldStockRemaining:
			style = styles.StatusStyle(flockState(rec))
		}
		if selected {
			style = style.Background(lipgloss.Color(m.theme.SelectionBg))
			if i == m.selectedCol {
				style = style.Underline(true).Bold(true)
			}
		}
		cells[i] = style.Render(text)
	}
	sep := strings.Repeat(" ", columnGap)
	if selected {
		sep = styles.Selected.Render(sep)
	}
	return strings.Join(cells, sep)
}

func (m Model) renderGridFooter(styles Styles, bg BgStyle) string {
	parts := []string{
		bg.Render(fmt.Sprintf("Page %d/%d", m.grid.PageIndex()+1, m.grid.PageCount()), styles.MutedText),
		bg.Render(fmt.Sprintf("%d of %d rows", m.grid.Len(), m.grid.Total()), styles.MutedText),
	}
	if sort := m.grid.Sort(); sort.Direction != grid.Unsorted {
		header := sort.Field
		if col, ok := m.grid.Column(sort.Field); ok {
			header = col.Header
		}
		parts = append(parts, bg.Render("sort: "+header+" "+sort.Direction.String(), styles.InfoText))
	}
	if filters := m.grid.Filters(); len(filters) > 0 {
		parts = append(parts, bg.Render(fmt.Sprintf("%d filter(s)", len(filters)), styles.WarningText))
	}
	if m.status != "" {
		style := styles.SuccessText
		if m.statusError {
			style = styles.WarningText
		}
		parts = append(parts, bg.Render(m.status, style))
	}
	sep := bg.Space() + bg.Render("•", styles.FaintText) + bg.Space()
	return bg.FillLine(strings.Join(parts, sep), m.width)
}
