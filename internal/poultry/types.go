package poultry

import (
	"strconv"
	"strings"
)

// FlockRecord mirrors one flock as returned by /api/poultry/flocks.
type FlockRecord struct {
	FlockID        int64   `json:"flockId,omitempty"`
	FlockName      string  `json:"flockName"`
	FlockType      string  `json:"flockType"`
	StockDate      string  `json:"stockDate"`
	NbrOfBirds     int     `json:"nbrOfBirds"`
	Purpose        string  `json:"purpose"`
	Reduction      int     `json:"reduction"`
	Mortality      int     `json:"mortality"`
	StockRemaining int     `json:"stockRemaining"`
	SoldOut        bool    `json:"soldOut"`
	Batch          string  `json:"batch"`
	AvgWeight      float64 `json:"avgWeight"`
	NbrOfDays      int     `json:"nbrOfDays"`
}

// Field names as they appear on the wire. The grid, the form and the detail
// route all address record values by these names.
const (
	FieldFlockID        = "flockId"
	FieldFlockName      = "flockName"
	FieldFlockType      = "flockType"
	FieldStockDate      = "stockDate"
	FieldNbrOfBirds     = "nbrOfBirds"
	FieldPurpose        = "purpose"
	FieldReduction      = "reduction"
	FieldMortality      = "mortality"
	FieldStockRemaining = "stockRemaining"
	FieldSoldOut        = "soldOut"
	FieldBatch          = "batch"
	FieldAvgWeight      = "avgWeight"
	FieldNbrOfDays      = "nbrOfDays"
)

// FieldValue returns the display text for the named field, or "" when the
// field is unknown.
func (r FlockRecord) FieldValue(field string) string {
	switch field {
	case FieldFlockID:
		return strconv.FormatInt(r.FlockID, 10)
	case FieldFlockName:
		return r.FlockName
	case FieldFlockType:
		return r.FlockType
	case FieldStockDate:
		return r.StockDate
	case FieldNbrOfBirds:
		return strconv.Itoa(r.NbrOfBirds)
	case FieldPurpose:
		return r.Purpose
	case FieldReduction:
		return strconv.Itoa(r.Reduction)
	case FieldMortality:
		return strconv.Itoa(r.Mortality)
	case FieldStockRemaining:
		return strconv.Itoa(r.StockRemaining)
	case FieldSoldOut:
		return strconv.FormatBool(r.SoldOut)
	case FieldBatch:
		return r.Batch
	case FieldAvgWeight:
		return strconv.FormatFloat(r.AvgWeight, 'f', -1, 64)
	case FieldNbrOfDays:
		return strconv.Itoa(r.NbrOfDays)
	default:
		return ""
	}
}

// Label returns a short human label for confirmations and titles.
func (r FlockRecord) Label() string {
	name := strings.TrimSpace(r.FlockName)
	if name == "" {
		name = strings.TrimSpace(r.FlockType)
	}
	if name == "" {
		return "Flock #" + strconv.FormatInt(r.FlockID, 10)
	}
	return "#" + strconv.FormatInt(r.FlockID, 10) + " " + name
}

// errorBody is the structured error payload the backend sends on failure.
type errorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Path    string `json:"path"`
}
