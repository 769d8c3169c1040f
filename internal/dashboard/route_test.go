package dashboard

import (
	"testing"

	"github.com/kombefarm/flockdash/internal/poultry"
)

func TestDetailPath(t *testing.T) {
	rec := poultry.FlockRecord{
		FlockID:        7,
		FlockType:      "Broiler",
		StockRemaining: 93,
		NbrOfDays:      21,
		Reduction:      5,
		Mortality:      2,
		StockDate:      "2024-01-01",
		Purpose:        "Meat",
	}
	want := "/flockDetails/7/Broiler/93/21/5/2/2024-01-01/Meat"
	if got := DetailPath(rec); got != want {
		t.Fatalf("DetailPath = %q, want %q", got, want)
	}
}

func TestDetailPath_EscapesSeparators(t *testing.T) {
	rec := poultry.FlockRecord{FlockID: 3, FlockType: "Dual Purpose", Purpose: "Meat/Eggs", StockDate: "2024/02/01"}
	path := DetailPath(rec)
	want := "/flockDetails/3/Dual%20Purpose/0/0/0/0/2024%2F02%2F01/Meat%2FEggs"
	if path != want {
		t.Fatalf("DetailPath = %q, want %q", path, want)
	}

	detail, ok := ParseDetailPath(path)
	if !ok {
		t.Fatalf("ParseDetailPath(%q) failed", path)
	}
	if detail.FlockID != 3 || detail.FlockType != "Dual Purpose" || detail.Purpose != "Meat/Eggs" || detail.StockDate != "2024/02/01" {
		t.Fatalf("ParseDetailPath = %#v", detail)
	}
}

func TestParseDetailPath_Rejects(t *testing.T) {
	for _, path := range []string{
		"",
		"/flockDetails/1/Broiler",
		"/other/1/Broiler/93/21/5/2/2024-01-01/Meat",
		"/flockDetails/x/Broiler/93/21/5/2/2024-01-01/Meat",
	} {
		if _, ok := ParseDetailPath(path); ok {
			t.Fatalf("ParseDetailPath(%q) succeeded, want failure", path)
		}
	}
}
