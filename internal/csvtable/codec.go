// Encodes and decodes tables as CSV text.

package csvtable

import (
	"slices"
	"strings"
)

// Encode serializes t as CSV: a header line followed by one line per row,
// joined by "\n" without a trailing newline.
//
// A table without rows encodes to the empty string.
func Encode(t *Table) string {
	if t == nil || len(t.Rows) == 0 {
		return ""
	}
	var b strings.Builder
	writeHeader(&b, t.Columns)
	for _, r := range t.Rows {
		b.WriteByte('\n')
		if len(t.Columns) == 1 && r[t.Columns[0]].Text() == "" {
			// A bare empty line would be skipped as blank on decode.
			b.WriteString(`""`)
			continue
		}
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteByte(',')
			}
			writeField(&b, r[c], false)
		}
	}
	return b.String()
}

// EncodeHeader returns only the header line of t. It is how a table with
// columns but no rows is stored; Decode reads it back as an empty table and
// DecodeColumns recovers the columns.
func EncodeHeader(t *Table) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	writeHeader(&b, t.Columns)
	return b.String()
}

func writeHeader(b *strings.Builder, columns []string) {
	for i, c := range columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeField(b, String(c), true)
	}
}

// writeField writes one field, quoting it when needed.
func writeField(b *strings.Builder, v Value, header bool) {
	s := v.Text()
	if !needsQuotes(v, header) {
		b.WriteString(s)
		return
	}
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

// needsQuotes returns true when the text would not decode back to v unquoted.
func needsQuotes(v Value, header bool) bool {
	s := v.Text()
	if strings.ContainsAny(s, ",\"\n\r") {
		return true
	}
	if v.IsNumber() || s == "" {
		return false
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	// A string that looks like a number would come back as a number.
	if _, ok := parseNumber(s); ok && !header {
		return true
	}
	return false
}

// Decode parses CSV text into a table. It never fails.
//
// Blank lines are skipped. The first remaining line holds the column names,
// trimmed and stripped of quotes; duplicate names keep their first position.
// Fields are matched to columns by position: missing fields are empty
// strings and extra fields are dropped. Unquoted fields that parse as finite
// numbers become numeric cells.
//
// Input with fewer than two non-blank lines decodes to an empty table.
func Decode(s string) *Table {
	var lines []record
	for _, r := range tokenize(s) {
		if !r.blank {
			lines = append(lines, r)
		}
	}
	if len(lines) < 2 {
		return &Table{}
	}

	header := lines[0].fields
	t := &Table{Rows: make([]Row, 0, len(lines)-1)}
	var pos []int
	t.Columns, pos = parseHeader(header)

	for _, line := range lines[1:] {
		row := make(Row, len(t.Columns))
		for i := range header {
			if pos[i] < 0 {
				continue
			}
			name := t.Columns[pos[i]]
			if i >= len(line.fields) {
				row[name] = String("")
				continue
			}
			tok := line.fields[i]
			if tok.quoted {
				row[name] = String(tok.text)
			} else {
				row[name] = coerceField(tok.text)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// DecodeColumns returns the column names of the first non-blank line of s,
// cleaned up the same way as Decode. Unlike Decode it does not require a data
// line.
func DecodeColumns(s string) []string {
	for _, r := range tokenize(s) {
		if !r.blank {
			cols, _ := parseHeader(r.fields)
			return cols
		}
	}
	return nil
}

// CleanColumnName returns name as it reads back from a header line: outer
// whitespace and every double quote removed.
func CleanColumnName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
}

// parseHeader returns the unique column names and, for each header field,
// its column index or -1 for a duplicate.
func parseHeader(header []field) ([]string, []int) {
	var cols []string
	pos := make([]int, len(header))
	for i, f := range header {
		name := CleanColumnName(f.text)
		if slices.Contains(cols, name) {
			pos[i] = -1
			continue
		}
		pos[i] = len(cols)
		cols = append(cols, name)
	}
	return cols, pos
}
