package workspace

import (
	"errors"
	"fmt"

	"github.com/maruel/workpad/internal/csvtable"
)

// errUnchanged makes editSheet skip the write.
var errUnchanged = errors.New("unchanged")

// Sheet returns the table view of a spreadsheet.
//
// A spreadsheet holding only a header line decodes to a table with those
// columns and no rows.
func (s *Store) Sheet(name string) (*csvtable.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, err := s.spreadsheet(name)
	if err != nil {
		return nil, err
	}
	return decodeSheet(f.Content), nil
}

// SetCell sets one cell. An out of range row or unknown column leaves the
// file untouched and is not an error.
func (s *Store) SetCell(name string, row int, column string, v csvtable.Value) (*csvtable.Table, error) {
	return s.editSheet(name, func(t *csvtable.Table) error {
		if !t.SetCell(row, column, v) {
			return errUnchanged
		}
		return nil
	})
}

// RenameColumn renames a spreadsheet column.
func (s *Store) RenameColumn(name, oldColumn, newColumn string) (*csvtable.Table, error) {
	return s.editSheet(name, func(t *csvtable.Table) error {
		if oldColumn == newColumn && newColumn != "" {
			return errUnchanged
		}
		return t.RenameColumn(oldColumn, newColumn)
	})
}

// AddColumn appends a column to a spreadsheet.
func (s *Store) AddColumn(name, column string) (*csvtable.Table, error) {
	return s.editSheet(name, func(t *csvtable.Table) error {
		return t.AddColumn(column)
	})
}

// AddRow appends an empty row to a spreadsheet.
func (s *Store) AddRow(name string) (*csvtable.Table, error) {
	return s.editSheet(name, func(t *csvtable.Table) error {
		return t.AddRow()
	})
}

// ApplySpreadsheetContent stores CSV produced outside the editor, such as an
// AI reply, after checking it has at least one column. On failure the file is
// unchanged.
func (s *Store) ApplySpreadsheetContent(name, content string) (*csvtable.Table, error) {
	t := decodeSheet(content)
	if len(t.Columns) == 0 {
		return nil, ErrInvalidSpreadsheet
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.spreadsheet(name)
	if err != nil {
		return nil, err
	}
	if err := s.checkSize(content); err != nil {
		return nil, err
	}
	f.Content = content
	return t, nil
}

// editSheet decodes a spreadsheet, applies fn and stores the re-encoded
// table. The file is only written when fn succeeds.
func (s *Store) editSheet(name string, fn func(*csvtable.Table) error) (*csvtable.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.spreadsheet(name)
	if err != nil {
		return nil, err
	}
	t := decodeSheet(f.Content)
	if err := fn(t); errors.Is(err, errUnchanged) {
		return t, nil
	} else if err != nil {
		return nil, err
	}
	content := csvtable.Encode(t)
	if t.IsEmpty() {
		content = csvtable.EncodeHeader(t)
	}
	if err := s.checkSize(content); err != nil {
		return nil, err
	}
	f.Content = content
	return t, nil
}

// spreadsheet returns the named file if it is a spreadsheet. Must hold mu.
func (s *Store) spreadsheet(name string) (*File, error) {
	f, ok := s.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if f.Kind != Spreadsheet {
		return nil, fmt.Errorf("%w: %q", ErrNotSpreadsheet, name)
	}
	return f, nil
}

func decodeSheet(content string) *csvtable.Table {
	t := csvtable.Decode(content)
	if len(t.Columns) == 0 {
		t.Columns = csvtable.DecodeColumns(content)
	}
	return t
}
