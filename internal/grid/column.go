package grid

import (
	"strings"
	"unicode"
)

// ColDef declares a column. Nil pointers and a zero Flex take the grid's
// defaults.
type ColDef struct {
	Field          string
	Header         string
	Hide           bool
	Sortable       *bool
	Filter         *bool
	FloatingFilter *bool
	Flex           int
	// Actions turns the column into a row action cell with these triggers.
	Actions []string
}

// Defaults apply to every column that does not override them.
type Defaults struct {
	Sortable       bool
	Filter         bool
	FloatingFilter bool
	Flex           int
}

// DefaultColDef is the uniform column behaviour: sortable, filterable with a
// floating filter row, flex 2.
var DefaultColDef = Defaults{
	Sortable:       true,
	Filter:         true,
	FloatingFilter: true,
	Flex:           2,
}

// Column is a ColDef with defaults applied.
type Column struct {
	Field          string
	Header         string
	Hidden         bool
	Sortable       bool
	Filterable     bool
	FloatingFilter bool
	Flex           int
	Actions        []string
}

// IsAction reports whether the column renders row actions instead of data.
func (c Column) IsAction() bool {
	return len(c.Actions) > 0
}

// Bool returns a pointer to v, for ColDef overrides.
func Bool(v bool) *bool {
	return &v
}

func resolve(def ColDef, d Defaults) Column {
	col := Column{
		Field:          def.Field,
		Header:         def.Header,
		Hidden:         def.Hide,
		Sortable:       d.Sortable,
		Filterable:     d.Filter,
		FloatingFilter: d.FloatingFilter,
		Flex:           d.Flex,
		Actions:        append([]string(nil), def.Actions...),
	}
	if def.Sortable != nil {
		col.Sortable = *def.Sortable
	}
	if def.Filter != nil {
		col.Filterable = *def.Filter
	}
	if def.FloatingFilter != nil {
		col.FloatingFilter = *def.FloatingFilter
	}
	if def.Flex > 0 {
		col.Flex = def.Flex
	}
	if col.Header == "" {
		col.Header = HeaderFromField(def.Field)
	}
	if col.IsAction() {
		col.Sortable = false
		col.Filterable = false
		col.FloatingFilter = false
	}
	if col.Flex <= 0 {
		col.Flex = 1
	}
	return col
}

// HeaderFromField turns a camelCase field into a title: "stockDate" becomes
// "Stock Date".
func HeaderFromField(field string) string {
	if field == "" {
		return ""
	}
	var b strings.Builder
	runes := []rune(field)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			continue
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
			continue
		case unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
