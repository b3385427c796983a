package csvtable

import (
	"maps"
	"slices"
	"strconv"
)

// Row maps column names to cells.
type Row map[string]Value

// Table is an ordered list of unique column names and an ordered list of
// rows. Every row holds exactly the table's columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// New returns a row-less table with the given columns.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// IsEmpty returns true when the table has no rows.
func (t *Table) IsEmpty() bool {
	return len(t.Rows) == 0
}

// HasColumn returns true if name is one of the table's columns.
func (t *Table) HasColumn(name string) bool {
	return slices.Contains(t.Columns, name)
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{Columns: slices.Clone(t.Columns), Rows: make([]Row, len(t.Rows))}
	for i, r := range t.Rows {
		c.Rows[i] = maps.Clone(r)
	}
	return c
}

// Normalize restores the row invariant: missing cells become empty strings
// and keys that are not columns are dropped.
func (t *Table) Normalize() {
	for i, r := range t.Rows {
		if r == nil {
			r = make(Row, len(t.Columns))
			t.Rows[i] = r
		}
		for k := range r {
			if !t.HasColumn(k) {
				delete(r, k)
			}
		}
		for _, c := range t.Columns {
			if _, ok := r[c]; !ok {
				r[c] = String("")
			}
		}
	}
}

// Range returns the A1-notation range covering the header row and all data
// rows, e.g. "A1:D6" for four columns and five rows. It is empty for a table
// without columns.
func (t *Table) Range() string {
	if len(t.Columns) == 0 {
		return ""
	}
	return "A1:" + ColumnName(len(t.Columns)-1) + strconv.Itoa(len(t.Rows)+1)
}

// ColumnName returns the spreadsheet letter name of the zero-based column
// index: A..Z, AA..AZ, BA...
func ColumnName(i int) string {
	if i < 0 {
		return ""
	}
	var b []byte
	for i >= 0 {
		b = append(b, byte('A'+i%26))
		i = i/26 - 1
	}
	slices.Reverse(b)
	return string(b)
}
