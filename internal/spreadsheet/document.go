package spreadsheet

// Sheet is one named tab: a header row followed by data rows, all
// cells as strings. Formula cells keep their formula text.
type Sheet struct {
	Name string
	Rows [][]string
}

// Document is one tabular attachment.
type Document struct {
	Sheets []Sheet
}
