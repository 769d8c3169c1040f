package state

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kombefarm/flockdash/internal/poultry"
)

// TemplateFields are the keys of the empty form template, in template order.
var TemplateFields = []string{
	poultry.FieldFlockName,
	poultry.FieldNbrOfBirds,
	poultry.FieldAvgWeight,
	poultry.FieldPurpose,
	poultry.FieldReduction,
	poultry.FieldFlockType,
	poultry.FieldStockDate,
	poultry.FieldMortality,
	poultry.FieldBatch,
}

// recordFields are the extra keys copied from a row when it is opened for update.
var recordFields = []string{
	poultry.FieldStockRemaining,
	poultry.FieldSoldOut,
	poultry.FieldNbrOfDays,
}

// FormState stages create/update input. A non-zero ID means update.
// Values are never mutated in place; With returns a new FormState.
type FormState struct {
	ID     int64
	values map[string]string
}

// EmptyForm returns the empty template.
func EmptyForm() FormState {
	values := make(map[string]string, len(TemplateFields))
	for _, field := range TemplateFields {
		values[field] = ""
	}
	return FormState{values: values}
}

// FormFromRecord copies a row's full field set, including its identifier.
func FormFromRecord(rec poultry.FlockRecord) FormState {
	values := make(map[string]string, len(TemplateFields)+len(recordFields))
	for _, field := range TemplateFields {
		values[field] = rec.FieldValue(field)
	}
	for _, field := range recordFields {
		values[field] = rec.FieldValue(field)
	}
	return FormState{ID: rec.FlockID, values: values}
}

// HasID reports whether the form targets an existing record.
func (f FormState) HasID() bool {
	return f.ID > 0
}

// Value returns the staged text for field.
func (f FormState) Value(field string) string {
	return f.values[field]
}

// Values returns a copy of all staged values.
func (f FormState) Values() map[string]string {
	dup := make(map[string]string, len(f.values))
	for k, v := range f.values {
		dup[k] = v
	}
	return dup
}

// With returns a copy of f with one key replaced. The identifier is not a
// form value and cannot be changed this way.
func (f FormState) With(field, value string) FormState {
	if field == poultry.FieldFlockID {
		return f
	}
	next := f.Values()
	next[field] = value
	return FormState{ID: f.ID, values: next}
}

// Equal reports whether two forms stage the same input.
func (f FormState) Equal(other FormState) bool {
	if f.ID != other.ID || len(f.values) != len(other.values) {
		return false
	}
	for k, v := range f.values {
		if ov, ok := other.values[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// FieldError reports a form value that cannot be sent to the backend.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid number", e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Record converts the staged text into a wire record. Blank numeric fields
// become zero.
func (f FormState) Record() (poultry.FlockRecord, error) {
	rec := poultry.FlockRecord{
		FlockID:   f.ID,
		FlockName: strings.TrimSpace(f.values[poultry.FieldFlockName]),
		FlockType: strings.TrimSpace(f.values[poultry.FieldFlockType]),
		StockDate: strings.TrimSpace(f.values[poultry.FieldStockDate]),
		Purpose:   strings.TrimSpace(f.values[poultry.FieldPurpose]),
		Batch:     strings.TrimSpace(f.values[poultry.FieldBatch]),
	}

	ints := []struct {
		field string
		dest  *int
	}{
		{poultry.FieldNbrOfBirds, &rec.NbrOfBirds},
		{poultry.FieldReduction, &rec.Reduction},
		{poultry.FieldMortality, &rec.Mortality},
		{poultry.FieldStockRemaining, &rec.StockRemaining},
		{poultry.FieldNbrOfDays, &rec.NbrOfDays},
	}
	for _, target := range ints {
		raw := strings.TrimSpace(f.values[target.field])
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return poultry.FlockRecord{}, &FieldError{Field: target.field, Value: raw, Err: err}
		}
		*target.dest = n
	}

	if raw := strings.TrimSpace(f.values[poultry.FieldAvgWeight]); raw != "" {
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil || w < 0 {
			return poultry.FlockRecord{}, &FieldError{Field: poultry.FieldAvgWeight, Value: raw, Err: err}
		}
		rec.AvgWeight = w
	}
	if raw := strings.TrimSpace(f.values[poultry.FieldSoldOut]); raw != "" {
		sold, err := strconv.ParseBool(raw)
		if err != nil {
			return poultry.FlockRecord{}, &FieldError{Field: poultry.FieldSoldOut, Value: raw, Err: err}
		}
		rec.SoldOut = sold
	}
	return rec, nil
}
