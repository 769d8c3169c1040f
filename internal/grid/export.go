package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Flocks"

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want csv or xlsx)", raw)
	}
}

// FileName returns "<base>-YYYYMMDD-HHMMSS.<format>".
func FileName(base string, format Format, now time.Time) string {
	if base == "" {
		base = "export"
	}
	return fmt.Sprintf("%s-%s.%s", base, now.Format("20060102-150405"), format)
}

// ExportColumns returns the columns written by Export: every data column,
// hidden ones included, without action columns.
func (g *Grid[T]) ExportColumns() []Column {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Column, 0, len(g.columns))
	for _, col := range g.columns {
		if !col.IsAction() {
			out = append(out, col)
		}
	}
	return out
}

// Records returns the export table: a header row followed by every filtered,
// sorted row.
func (g *Grid[T]) Records() [][]string {
	cols := g.ExportColumns()
	rows := g.Rows()

	out := make([][]string, 0, len(rows)+1)
	header := make([]string, len(cols))
	for i, col := range cols {
		header[i] = col.Header
	}
	out = append(out, header)
	for _, row := range rows {
		record := make([]string, len(cols))
		for i, col := range cols {
			record[i] = g.value(row, col.Field)
		}
		out = append(out, record)
	}
	return out
}

// Export writes Records to w in format.
func (g *Grid[T]) Export(w io.Writer, format Format) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, g.Records())
	case FormatXLSX:
		return writeXLSX(w, g.Records())
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeCSV(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, records [][]string) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close workbook: %w", cerr)
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		row := make([]any, len(record))
		for j, v := range record {
			row[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(records) > 0 && len(records[0]) > 0 {
		bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(records[0]), 1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
