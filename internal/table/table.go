package table

// Table is a fully loaded delimited file.
type Table struct {
	Source    string     `json:"source"`
	Encoding  string     `json:"encoding"`
	Delimiter rune       `json:"delimiter"`
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"-"`
}

// Index returns the position of a column, or -1 when absent.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Has reports whether the table carries column.
func (t *Table) Has(column string) bool {
	return t.Index(column) >= 0
}

// MissingCells counts empty (after trimming) cells across all rows. Cells
// absent from rows shorter than the header count as missing.
func (t *Table) MissingCells() int {
	missing := 0
	for _, row := range t.Rows {
		if len(row) < len(t.Columns) {
			missing += len(t.Columns) - len(row)
		}
		for _, v := range row {
			if isBlank(v) {
				missing++
			}
		}
	}
	return missing
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' {
			return false
		}
	}
	return true
}
