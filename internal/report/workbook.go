package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// renderWorkbook builds the XLSX bundle: a Summary cover sheet with run
// identity and per-view row counts, then one sheet per view mirroring its
// CSV artifact.
func renderWorkbook(q Query, schemas []ViewSchema, data map[string][]Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const cover = "Summary"
	if err := f.SetSheetName("Sheet1", cover); err != nil {
		return nil, fmt.Errorf("naming cover sheet: %w", err)
	}

	coverRows := [][]any{
		{"Jurisdiction", q.JCode},
		{"Course", q.CourseCode},
		{"Period start", q.From.UTC().Format("2006-01-02")},
		{"Period end", q.To.UTC().Format("2006-01-02")},
		{},
		{"View", "Rows"},
	}
	for _, vs := range schemas {
		coverRows = append(coverRows, []any{vs.Title, len(data[vs.Name])})
	}
	for i, row := range coverRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(cover, cell, &row); err != nil {
			return nil, fmt.Errorf("writing cover row %d: %w", i+1, err)
		}
	}

	for _, vs := range schemas {
		if _, err := f.NewSheet(vs.Title); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", vs.Title, err)
		}

		header := make([]any, len(vs.Columns))
		for i, col := range vs.Columns {
			header[i] = col
		}
		if err := f.SetSheetRow(vs.Title, "A1", &header); err != nil {
			return nil, fmt.Errorf("writing %s header: %w", vs.Name, err)
		}

		for ri, row := range data[vs.Name] {
			record := make([]any, len(vs.Columns))
			for ci, col := range vs.Columns {
				record[ci] = row[col]
			}
			cell, err := excelize.CoordinatesToCellName(1, ri+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(vs.Title, cell, &record); err != nil {
				return nil, fmt.Errorf("writing %s row %d: %w", vs.Name, ri+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
