// Implements the spreadsheet mutations on a decoded table.

package csvtable

import (
	"errors"
	"slices"
)

var (
	// ErrEmptyName is returned when a column name is empty.
	ErrEmptyName = errors.New("column name is empty")
	// ErrColumnExists is returned when a column name is already used.
	ErrColumnExists = errors.New("column already exists")
	// ErrUnknownColumn is returned when a column does not exist.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNoColumns is returned when adding a row to a table without columns.
	ErrNoColumns = errors.New("table has no columns")
)

// SetCell replaces the value at (row, column). It returns false and leaves
// the table unchanged when row is out of range or column is unknown.
func (t *Table) SetCell(row int, column string, v Value) bool {
	if row < 0 || row >= len(t.Rows) || !t.HasColumn(column) {
		return false
	}
	t.Rows[row][column] = v
	return true
}

// RenameColumn renames oldName to newName in the column list and every row,
// keeping column order and values.
//
// newName is cleaned with CleanColumnName first so that it survives an
// encode and decode cycle. Renaming a column to itself is a no-op.
func (t *Table) RenameColumn(oldName, newName string) error {
	newName = CleanColumnName(newName)
	if newName == "" {
		return ErrEmptyName
	}
	if oldName == newName {
		return nil
	}
	i := slices.Index(t.Columns, oldName)
	if i < 0 {
		return ErrUnknownColumn
	}
	if t.HasColumn(newName) {
		return ErrColumnExists
	}
	t.Columns[i] = newName
	for _, r := range t.Rows {
		r[newName] = r[oldName]
		delete(r, oldName)
	}
	return nil
}

// AddColumn appends a column; every existing row gets an empty string for
// it. On a row-less table only the column list grows. name is cleaned with
// CleanColumnName first.
func (t *Table) AddColumn(name string) error {
	name = CleanColumnName(name)
	if name == "" {
		return ErrEmptyName
	}
	if t.HasColumn(name) {
		return ErrColumnExists
	}
	t.Columns = append(t.Columns, name)
	for _, r := range t.Rows {
		r[name] = String("")
	}
	return nil
}

// AddRow appends a row with an empty string in every column.
func (t *Table) AddRow() error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	r := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		r[c] = String("")
	}
	t.Rows = append(t.Rows, r)
	return nil
}
