package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kombefarm/flockdash/internal/poultry"
)

// DetailRoot is the first segment of every detail path.
const DetailRoot = "flockDetails"

// detailFields lists the positional segments after DetailRoot.
var detailFields = []string{
	poultry.FieldFlockID,
	poultry.FieldFlockType,
	poultry.FieldStockRemaining,
	poultry.FieldNbrOfDays,
	poultry.FieldReduction,
	poultry.FieldMortality,
	poultry.FieldStockDate,
	poultry.FieldPurpose,
}

// DetailPath builds /flockDetails/{id}/{type}/{stockRemaining}/{nbrOfDays}/
// {reduction}/{mortality}/{stockDate}/{purpose}. Segments are path-escaped so
// a "/" inside a value cannot shift the positions.
func DetailPath(rec poultry.FlockRecord) string {
	var b strings.Builder
	b.WriteString("/")
	b.WriteString(DetailRoot)
	for _, field := range detailFields {
		b.WriteString("/")
		b.WriteString(url.PathEscape(rec.FieldValue(field)))
	}
	return b.String()
}

// Detail is a decoded detail path.
type Detail struct {
	FlockID        int64
	FlockType      string
	StockRemaining string
	NbrOfDays      string
	Reduction      string
	Mortality      string
	StockDate      string
	Purpose        string
}

// ParseDetailPath decodes a path built by DetailPath. The numeric segments
// other than the id stay strings, as the route carries them untyped.
func ParseDetailPath(path string) (Detail, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) != len(detailFields)+1 || parts[0] != DetailRoot {
		return Detail{}, false
	}
	values := make([]string, len(detailFields))
	for i, raw := range parts[1:] {
		v, err := url.PathUnescape(raw)
		if err != nil {
			return Detail{}, false
		}
		values[i] = v
	}
	id, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return Detail{}, false
	}
	return Detail{
		FlockID:        id,
		FlockType:      values[1],
		StockRemaining: values[2],
		NbrOfDays:      values[3],
		Reduction:      values[4],
		Mortality:      values[5],
		StockDate:      values[6],
		Purpose:        values[7],
	}, true
}
