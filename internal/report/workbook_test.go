package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRenderWorkbookSheets(t *testing.T) {
	schemas, err := Schemas()
	if err != nil {
		t.Fatal(err)
	}
	data := map[string][]Row{
		"roster": {
			{"student_id": "s-001", "full_name": "Dana Reyes", "email": "dana@example.com",
				"enrolled_at": "2026-01-03T09:00:00Z", "status": "active"},
		},
	}

	out, err := renderWorkbook(testQuery(), schemas, data)
	if err != nil {
		t.Fatalf("renderWorkbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("reading workbook back: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 1+len(schemas) {
		t.Fatalf("sheets = %v, want Summary plus one per view", sheets)
	}
	if sheets[0] != "Summary" {
		t.Errorf("first sheet = %q, want Summary", sheets[0])
	}

	// Cover sheet identity.
	got, err := f.GetCellValue("Summary", "B1")
	if err != nil || got != "CA" {
		t.Errorf("Summary B1 = %q, %v; want CA", got, err)
	}

	// View sheet header and data mirror the CSV layout.
	header, err := f.GetCellValue("Student Roster", "A1")
	if err != nil || header != "student_id" {
		t.Errorf("roster A1 = %q, %v", header, err)
	}
	name, err := f.GetCellValue("Student Roster", "B2")
	if err != nil || name != "Dana Reyes" {
		t.Errorf("roster B2 = %q, %v", name, err)
	}
}
