// Package csvtable converts between CSV text and an in-memory table of
// string and numeric cells, and implements the table mutations used by the
// spreadsheet editor.
package csvtable

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind is the type of a cell value.
type Kind uint8

const (
	// KindString is a text cell.
	KindString Kind = iota
	// KindNumber is a finite numeric cell.
	KindNumber
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a single cell: either a string or a number.
//
// A number decoded from CSV keeps its source text so that re-encoding an
// untouched table is byte-identical.
type Value struct {
	kind Kind
	str  string // text for strings, source text for numbers
	num  float64
}

// String returns a string cell.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric cell. Non-finite values are stored as their text
// representation.
func Number(f float64) Value {
	if !isFinite(f) {
		return String(formatNumber(f))
	}
	return Value{kind: KindNumber, num: f, str: formatNumber(f)}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber returns true for numeric cells.
func (v Value) IsNumber() bool {
	return v.kind == KindNumber
}

// Float returns the numeric value. It is 0 for string cells.
func (v Value) Float() float64 {
	return v.num
}

// Text returns the cell as it is written in CSV, before quoting.
func (v Value) Text() string {
	return v.str
}

// Equal reports whether both values have the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	if v.kind == KindNumber {
		return v.num == o.num
	}
	return v.str == o.str
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.str
}

// MarshalJSON encodes numbers as JSON numbers and strings as JSON strings.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		return json.Marshal(v.num)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts a JSON string, number or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = String("")
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = String(str)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return errors.New("cell value must be a string or a number")
		}
		*v = Number(f)
		return nil
	}
}
