package poultry

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultBaseURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultBaseURL)
	}

	u, err = parseBaseURL("farm.example.com:9000/kbf/?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "farm.example.com:9000" {
		t.Fatalf("url = %q, want http scheme and host", u.String())
	}
	if u.Path != "/kbf" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestParseBaseURL_MissingHost(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want missing host error")
	}
}

func TestAsAPIError(t *testing.T) {
	if AsAPIError(nil) != nil {
		t.Fatalf("AsAPIError(nil) should be nil")
	}

	plain := errors.New("dial tcp: connection refused")
	got := AsAPIError(plain)
	if got.Kind != KindTransport || got.Message != plain.Error() {
		t.Fatalf("AsAPIError(plain) = %#v, want transport with message", got)
	}
	if !errors.Is(got, plain) {
		t.Fatalf("AsAPIError should unwrap to the original error")
	}

	tagged := &APIError{Kind: KindServer, Status: 404, Message: "Not found"}
	wrapped := fmt.Errorf("delete: %w", tagged)
	if AsAPIError(wrapped) != tagged {
		t.Fatalf("AsAPIError should find a wrapped *APIError")
	}
}

func TestServerError_FillsMissingFields(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        *errorBody
		raw         string
		wantStatus  int
		wantMessage string
	}{
		{"structured", 500, &errorBody{Status: 404, Message: "Not found"}, "", 404, "Not found"},
		{"spring error field", 400, &errorBody{Error: "Bad Request"}, "", 400, "Bad Request"},
		{"raw body", 502, &errorBody{}, " upstream down ", 502, "upstream down"},
		{"nothing", 503, nil, "", 503, "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serverError(tt.status, tt.body, tt.raw)
			if got.Kind != KindServer || got.Status != tt.wantStatus || got.Message != tt.wantMessage {
				t.Fatalf("serverError = %#v, want status %d message %q", got, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}

func TestFlockRecordFieldValue(t *testing.T) {
	rec := FlockRecord{
		FlockID:        7,
		FlockType:      "Broiler",
		NbrOfBirds:     100,
		StockRemaining: 93,
		SoldOut:        true,
		AvgWeight:      1.25,
	}
	cases := map[string]string{
		FieldFlockID:        "7",
		FieldFlockType:      "Broiler",
		FieldNbrOfBirds:     "100",
		FieldStockRemaining: "93",
		FieldSoldOut:        "true",
		FieldAvgWeight:      "1.25",
		"unknown":           "",
	}
	for field, want := range cases {
		if got := rec.FieldValue(field); got != want {
			t.Fatalf("FieldValue(%q) = %q, want %q", field, got, want)
		}
	}
	if rec.Label() != "#7 Broiler" {
		t.Fatalf("Label = %q, want #7 Broiler", rec.Label())
	}
}
