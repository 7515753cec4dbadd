package sheet

import "context"

// Worksheet is a tabular store with a header row in row 1 and one
// application per data row below it.
type Worksheet interface {
	// Headers returns row 1 of the worksheet.
	Headers(ctx context.Context) ([]string, error)
	// Rows returns every data row, header excluded. Short rows are
	// returned as-is; callers must bounds-check column access.
	Rows(ctx context.Context) ([][]string, error)
	// AppendRow adds values after the last data row.
	AppendRow(ctx context.Context, values []string) error
	// UpdateCells writes individual cells in one batch.
	UpdateCells(ctx context.Context, updates []CellUpdate) error
}

// CellUpdate addresses one cell. Row and Col are 1-based and Row counts
// the header row, so the first data row is Row 2.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// ColumnLetter converts a 1-based column index to its A1 letters.
func ColumnLetter(col int) string {
	s := ""
	for col > 0 {
		col--
		s = string(rune('A'+col%26)) + s
		col /= 26
	}
	return s
}
