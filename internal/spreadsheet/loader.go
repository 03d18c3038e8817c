package spreadsheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Load reads an xlsx workbook into a Document. A cell's formula text
// is preferred over its cached value so HYPERLINK-wrapped links
// survive into extraction.
func Load(path string) (Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return Document{}, fmt.Errorf("failed to read sheet %q of %s: %w", name, path, err)
		}
		for r := range rows {
			for c := range rows[r] {
				cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					continue
				}
				if formula, err := f.GetCellFormula(name, cellName); err == nil && formula != "" {
					rows[r][c] = "=" + formula
				}
			}
		}
		doc.Sheets = append(doc.Sheets, Sheet{Name: name, Rows: rows})
	}
	return doc, nil
}
