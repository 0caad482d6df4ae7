// Package dataset supplies the training table and the five reference tables
// as already-parsed tabular data. Tables are loaded once at startup and
// treated as immutable for the process lifetime; lookups never mutate them,
// so they are safe to share across concurrent callers without locking.
package dataset

// Table is an ordered collection of named-field records. Column order and row
// order follow the source file exactly. Cells beyond a row's length read as
// empty strings, so ragged source rows never crash a lookup.
type Table struct {
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// NewTable builds a table from a header and rows.
func NewTable(columns []string, rows [][]string) *Table {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := idx[c]; !ok {
			idx[c] = i
		}
	}
	return &Table{
		Columns:  columns,
		Rows:     rows,
		colIndex: idx,
	}
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// ColumnIndex returns the offset of a named column, or -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.colIndex[name]; ok {
		return i
	}
	return -1
}

// Cell returns the value at (row, column offset). Out-of-range access returns
// the empty string rather than panicking; missing cells propagate as absent
// entries downstream.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Get returns the value of a named column in the given row.
func (t *Table) Get(row int, column string) string {
	return t.Cell(row, t.ColumnIndex(column))
}

// Select returns the indexes of all rows whose named column equals value
// exactly, in table order. The match is byte-for-byte string equality.
func (t *Table) Select(column, value string) []int {
	col := t.ColumnIndex(column)
	if col < 0 {
		return nil
	}
	var matched []int
	for i := range t.Rows {
		if t.Cell(i, col) == value {
			matched = append(matched, i)
		}
	}
	return matched
}
