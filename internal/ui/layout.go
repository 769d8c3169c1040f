package ui

import "time"

// LayoutCompactWidth is the width below which the header drops its subtitle.
const LayoutCompactWidth = 100

// Log view limits.
const (
	// LogTailLines is how many lines of the activity log are read.
	LogTailLines = 2000
)

// Timing constants.
const (
	// StatusTTL is how long a transient status line stays in the footer.
	StatusTTL = 5 * time.Second
)

// Grid layout.
const (
	// gridChrome is the rows taken by header, command bar, column header,
	// filter row and footer around the grid body.
	gridChrome = 6

	// columnGap is the space between grid columns.
	columnGap = 1
)

// pageSizes are the rows-per-page steps offered by the page size key.
var pageSizes = []int{25, 50, 100}
