package dashboard

import (
	"github.com/kombefarm/flockdash/internal/grid"
	"github.com/kombefarm/flockdash/internal/poultry"
)

// Row actions offered by the Actions column.
const (
	ActionUpdate = "Update"
	ActionView   = "View"
	ActionDelete = "Delete"
)

// FlockColumns are the flock grid's column definitions, in display order.
func FlockColumns() []grid.ColDef {
	return []grid.ColDef{
		{Field: poultry.FieldFlockID},
		{Field: poultry.FieldFlockType, Header: "Breed"},
		{Field: poultry.FieldStockDate, Hide: true},
		{Field: poultry.FieldNbrOfBirds, Header: "Stock"},
		{Field: poultry.FieldPurpose, Hide: true},
		{Field: poultry.FieldReduction, Header: "Reduction"},
		{Field: poultry.FieldMortality},
		{Field: poultry.FieldStockRemaining, Header: "Remaining"},
		{Field: poultry.FieldSoldOut, Hide: true},
		{
			Field:   poultry.FieldFlockID,
			Header:  "Actions",
			Filter:  grid.Bool(false),
			Flex:    3,
			Actions: []string{ActionUpdate, ActionView, ActionDelete},
		},
	}
}

// NewFlockGrid builds the flock grid with pageSize rows per page.
func NewFlockGrid(pageSize int) *grid.Grid[poultry.FlockRecord] {
	return grid.New(flockValue, FlockColumns(), grid.WithPageSize(pageSize))
}

func flockValue(rec poultry.FlockRecord, field string) string {
	return rec.FieldValue(field)
}
