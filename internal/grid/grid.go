package grid

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// DefaultPageSize matches the page size most grids ship with.
const DefaultPageSize = 100

// ValueFunc returns the display text of field for row.
type ValueFunc[T any] func(row T, field string) string

// Direction is a column's sort state.
type Direction int

const (
	// Unsorted keeps rows in the order they were set.
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

// SortState names the sorted column, if any.
type SortState struct {
	Field     string
	Direction Direction
}

// Grid holds rows of T with column definitions, one active sort, per-column
// filters and pagination. It is safe for concurrent use.
type Grid[T any] struct {
	mu       sync.RWMutex
	columns  []Column
	value    ValueFunc[T]
	rows     []T
	view     []int
	sort     SortState
	filters  map[string]string
	page     int
	pageSize int
}

// Option customizes a Grid.
type Option func(*options)

type options struct {
	defaults Defaults
	pageSize int
}

// WithDefaults replaces DefaultColDef.
func WithDefaults(d Defaults) Option {
	return func(o *options) { o.defaults = d }
}

// WithPageSize sets the number of rows per page.
func WithPageSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.pageSize = n
		}
	}
}

// New builds a grid over defs.
func New[T any](value ValueFunc[T], defs []ColDef, opts ...Option) *Grid[T] {
	o := options{defaults: DefaultColDef, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&o)
	}
	cols := make([]Column, 0, len(defs))
	for _, def := range defs {
		cols = append(cols, resolve(def, o.defaults))
	}
	return &Grid[T]{
		columns:  cols,
		value:    value,
		filters:  make(map[string]string),
		pageSize: o.pageSize,
	}
}

// Columns returns every column, hidden ones included.
func (g *Grid[T]) Columns() []Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Column(nil), g.columns...)
}

// VisibleColumns returns the columns that are drawn.
func (g *Grid[T]) VisibleColumns() []Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Column, 0, len(g.columns))
	for _, col := range g.columns {
		if !col.Hidden {
			out = append(out, col)
		}
	}
	return out
}

// Column looks up a column by field. Action columns share their field with
// a data column, so data columns win.
func (g *Grid[T]) Column(field string) (Column, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.columnLocked(field)
}

func (g *Grid[T]) columnLocked(field string) (Column, bool) {
	var action *Column
	for i := range g.columns {
		if g.columns[i].Field != field {
			continue
		}
		if !g.columns[i].IsAction() {
			return g.columns[i], true
		}
		if action == nil {
			action = &g.columns[i]
		}
	}
	if action != nil {
		return *action, true
	}
	return Column{}, false
}

// SetRows replaces the row set. Sort, filters and page are kept; the page is
// clamped to the new row count.
func (g *Grid[T]) SetRows(rows []T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rows = append([]T(nil), rows...)
	g.rebuildLocked()
}

// Len returns the number of rows after filtering.
func (g *Grid[T]) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.view)
}

// Total returns the number of rows before filtering.
func (g *Grid[T]) Total() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}

// Rows returns every filtered, sorted row.
func (g *Grid[T]) Rows() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sliceLocked(0, len(g.view))
}

// Page returns the rows on the current page.
func (g *Grid[T]) Page() []T {
	g.mu.RLock()
	defer g.mu.RUnlock()
	start := g.page * g.pageSize
	end := min(start+g.pageSize, len(g.view))
	return g.sliceLocked(start, end)
}

func (g *Grid[T]) sliceLocked(start, end int) []T {
	if start >= end {
		return nil
	}
	out := make([]T, 0, end-start)
	for _, idx := range g.view[start:end] {
		out = append(out, g.rows[idx])
	}
	return out
}

// Cell returns the text of col for row.
func (g *Grid[T]) Cell(row T, col Column) string {
	if col.IsAction() {
		return strings.Join(col.Actions, " ")
	}
	return g.value(row, col.Field)
}

// Sort returns the active sort.
func (g *Grid[T]) Sort() SortState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sort
}

// ToggleSort cycles field through ascending, descending and unsorted. It
// reports false for unknown or unsortable columns.
func (g *Grid[T]) ToggleSort(field string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, ok := g.columnLocked(field)
	if !ok || !col.Sortable {
		return false
	}
	switch {
	case g.sort.Field != field || g.sort.Direction == Unsorted:
		g.sort = SortState{Field: field, Direction: Ascending}
	case g.sort.Direction == Ascending:
		g.sort.Direction = Descending
	default:
		g.sort = SortState{}
	}
	g.rebuildLocked()
	return true
}

// Filters returns a copy of the active filters.
func (g *Grid[T]) Filters() map[string]string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make(map[string]string, len(g.filters))
	for k, v := range g.filters {
		out[k] = v
	}
	return out
}

// SetFilter keeps rows whose field contains text, ignoring case. Empty text
// clears the filter. It reports false for unknown or unfilterable columns.
func (g *Grid[T]) SetFilter(field, text string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	col, ok := g.columnLocked(field)
	if !ok || !col.Filterable {
		return false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		delete(g.filters, field)
	} else {
		g.filters[field] = text
	}
	g.page = 0
	g.rebuildLocked()
	return true
}

// ClearFilters removes every filter.
func (g *Grid[T]) ClearFilters() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.filters = make(map[string]string)
	g.page = 0
	g.rebuildLocked()
}

// PageSize returns the rows per page.
func (g *Grid[T]) PageSize() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pageSize
}

// PageIndex returns the zero-based current page.
func (g *Grid[T]) PageIndex() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.page
}

// PageCount returns the number of pages; an empty grid has one.
func (g *Grid[T]) PageCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pageCountLocked()
}

func (g *Grid[T]) pageCountLocked() int {
	if len(g.view) == 0 {
		return 1
	}
	return (len(g.view) + g.pageSize - 1) / g.pageSize
}

// NextPage advances one page and reports whether it moved.
func (g *Grid[T]) NextPage() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.page+1 >= g.pageCountLocked() {
		return false
	}
	g.page++
	return true
}

// PrevPage goes back one page and reports whether it moved.
func (g *Grid[T]) PrevPage() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.page == 0 {
		return false
	}
	g.page--
	return true
}

// SetPageSize changes the rows per page and returns to the first page.
func (g *Grid[T]) SetPageSize(n int) {
	if n <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.pageSize = n
	g.page = 0
}

func (g *Grid[T]) rebuildLocked() {
	view := make([]int, 0, len(g.rows))
	for i, row := range g.rows {
		if g.matchesLocked(row) {
			view = append(view, i)
		}
	}
	if g.sort.Direction != Unsorted {
		field := g.sort.Field
		desc := g.sort.Direction == Descending
		sort.SliceStable(view, func(a, b int) bool {
			c := compareValues(g.value(g.rows[view[a]], field), g.value(g.rows[view[b]], field))
			if desc {
				return c > 0
			}
			return c < 0
		})
	}
	g.view = view
	if last := g.pageCountLocked() - 1; g.page > last {
		g.page = last
	}
}

func (g *Grid[T]) matchesLocked(row T) bool {
	for field, text := range g.filters {
		if !strings.Contains(strings.ToLower(g.value(row, field)), strings.ToLower(text)) {
			return false
		}
	}
	return true
}

// compareValues orders numbers numerically and everything else by
// case-insensitive text. Numbers sort before text.
func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(strings.TrimSpace(a), 64)
	fb, errB := strconv.ParseFloat(strings.TrimSpace(b), 64)
	switch {
	case errA == nil && errB == nil:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
