package csvtable

import "strings"

// tokState is the tokenizer state.
type tokState int

const (
	// stFieldStart is at the beginning of a field, before any character.
	stFieldStart tokState = iota
	// stUnquoted is inside a field that did not start with a quote.
	stUnquoted
	// stQuoted is inside a quoted field.
	stQuoted
	// stQuoteInQuoted saw a quote inside a quoted field: either the closing
	// quote or the first half of an escaped "".
	stQuoteInQuoted
)

// field is one tokenized CSV field.
type field struct {
	text   string
	quoted bool
}

// record is one logical CSV line. A quoted field may span physical lines.
type record struct {
	fields []field
	// blank is true when the line holds nothing but whitespace.
	blank bool
}

// tokenize splits CSV text into records of fields.
//
// It never fails: an unterminated quoted field runs to the end of the input,
// and text after a closing quote is appended to the field.
func tokenize(s string) []record {
	var (
		records []record
		fields  []field
		buf     strings.Builder
		quoted  bool
		content bool
		state   = stFieldStart
	)
	endField := func() {
		text := buf.String()
		if !quoted {
			text = strings.TrimSpace(text)
		}
		fields = append(fields, field{text: text, quoted: quoted})
		buf.Reset()
		quoted = false
	}
	endRecord := func() {
		endField()
		records = append(records, record{fields: fields, blank: !content})
		fields = nil
		content = false
		state = stFieldStart
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != ' ' && c != '\t' && c != '\r' && c != '\n' {
			content = true
		}
		switch state {
		case stFieldStart:
			switch c {
			case '"':
				quoted = true
				state = stQuoted
			case ',':
				endField()
			case '\n':
				endRecord()
			case '\r':
				// Dropped; \r\n ends the record on the \n.
			case ' ', '\t':
				// Leading blanks before an opening quote are insignificant.
			default:
				buf.WriteByte(c)
				state = stUnquoted
			}
		case stUnquoted:
			switch c {
			case ',':
				endField()
				state = stFieldStart
			case '\n':
				endRecord()
			case '\r':
			default:
				buf.WriteByte(c)
			}
		case stQuoted:
			if c == '"' {
				state = stQuoteInQuoted
			} else {
				buf.WriteByte(c)
			}
		case stQuoteInQuoted:
			switch c {
			case '"':
				buf.WriteByte('"')
				state = stQuoted
			case ',':
				endField()
				state = stFieldStart
			case '\n':
				endRecord()
			case '\r', ' ', '\t':
				// Trailing blanks after the closing quote are ignored.
			default:
				// Malformed: keep the character as part of the value.
				buf.WriteByte(c)
			}
		}
	}
	if state != stFieldStart || len(fields) > 0 || buf.Len() > 0 {
		endRecord()
	}
	return records
}
