// Package report generates per-jurisdiction regulatory report bundles:
// deterministic CSV artifacts for four reporting views, an XLSX workbook
// with a summary cover sheet, and a tamper-evident signed manifest.
package report

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed schemas/columns.yaml
var columnsYAML []byte

// ViewSchema fixes the artifact name and column set for one reporting view.
type ViewSchema struct {
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	Filename string   `yaml:"filename"`
	Columns  []string `yaml:"columns"`
}

// Schemas returns the view schemas in declaration order.
func Schemas() ([]ViewSchema, error) {
	var doc struct {
		Views []ViewSchema `yaml:"views"`
	}
	if err := yaml.Unmarshal(columnsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded column schemas: %w", err)
	}
	if len(doc.Views) == 0 {
		return nil, fmt.Errorf("embedded column schemas define no views")
	}
	for _, v := range doc.Views {
		if v.Name == "" || v.Filename == "" || len(v.Columns) == 0 {
			return nil, fmt.Errorf("view schema %q is incomplete", v.Name)
		}
	}
	return doc.Views, nil
}
