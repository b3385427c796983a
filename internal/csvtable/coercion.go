package csvtable

import (
	"math"
	"strconv"
	"strings"
)

// Numeric coercion of CSV fields.
//
// Unquoted field text → cell:
//
//	""          → String("")
//	"42"        → Number(42)   (source text kept: "042" re-encodes as "042")
//	"3.14"      → Number(3.14)
//	"-1e3"      → Number(-1000)
//	"NaN"/"Inf" → String       (only finite numbers are numeric)
//	"Laptop"    → String
//
// Quoted fields are never coerced: the quotes are how a numeric-looking string
// is written.

// coerceField converts unquoted, trimmed field text to a cell value.
func coerceField(text string) Value {
	if f, ok := parseNumber(text); ok {
		return Value{kind: KindNumber, num: f, str: text}
	}
	return String(text)
}

// parseNumber parses s as a finite decimal number. Empty strings, spellings
// of infinity or NaN, and hexadecimal or underscore forms are rejected.
func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	if c := s[len(s)-1]; (c < '0' || c > '9') && c != '.' {
		return 0, false
	}
	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}

// formatNumber renders f in its shortest form; whole numbers have no
// fractional part.
func formatNumber(f float64) string {
	if f == math.Trunc(f) && isFinite(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
