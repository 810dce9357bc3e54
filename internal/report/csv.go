package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// renderCSV serializes view rows using the view's fixed column schema.
// Output is deterministic: header first, then one record per row with
// columns in schema order, missing fields rendered empty.
func renderCSV(schema ViewSchema, rows []Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(schema.Columns); err != nil {
		return nil, fmt.Errorf("writing %s header: %w", schema.Name, err)
	}

	record := make([]string, len(schema.Columns))
	for _, row := range rows {
		for i, col := range schema.Columns {
			record[i] = row[col]
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("writing %s record: %w", schema.Name, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing %s: %w", schema.Name, err)
	}
	return buf.Bytes(), nil
}
