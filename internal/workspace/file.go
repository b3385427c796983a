// Package workspace holds the files of a personal workspace: markdown
// documents and CSV spreadsheets, their editor operations and their
// persistence to a blob store.
package workspace

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"unicode"
)

// Errors returned by Store. They are matched with errors.Is.
var (
	ErrNotFound           = errors.New("file not found")
	ErrExists             = errors.New("file already exists")
	ErrInvalidName        = errors.New("invalid file name")
	ErrUnsupportedKind    = errors.New("unsupported file type, use .md or .csv")
	ErrKindMismatch       = errors.New("rename would change the file type")
	ErrNotSpreadsheet     = errors.New("file is not a spreadsheet")
	ErrNotDocument        = errors.New("file is not a document")
	ErrInvalidSpreadsheet = errors.New("content is not a valid spreadsheet")
	ErrEmptyExport        = errors.New("file is empty")
	ErrQuota              = errors.New("workspace quota exceeded")
	ErrNotVersioned       = errors.New("storage backend keeps no history")
	ErrNoSelection        = errors.New("no file is selected")
)

// FileKind is the type of a file, fixed when the file is created.
type FileKind int

// File kinds.
const (
	Document FileKind = iota + 1
	Spreadsheet
)

func (k FileKind) String() string {
	switch k {
	case Document:
		return "document"
	case Spreadsheet:
		return "spreadsheet"
	default:
		return fmt.Sprintf("FileKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k FileKind) MarshalText() ([]byte, error) {
	switch k {
	case Document, Spreadsheet:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("invalid file kind %d", int(k))
	}
}

// MIMEType returns the content type used when exporting a file of this
// kind.
func (k FileKind) MIMEType() string {
	if k == Spreadsheet {
		return "text/csv; charset=utf-8"
	}
	return "text/markdown; charset=utf-8"
}

// KindFromName derives the kind from the file extension, case-insensitively.
func KindFromName(name string) (FileKind, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".md":
		return Document, nil
	case ".csv":
		return Spreadsheet, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
	}
}

// ValidateName checks that name is usable as a file name and has a supported
// extension.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || len(name) > 255 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.ContainsAny(name, `/\`) || strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	_, err := KindFromName(name)
	return err
}

// File is a named document or spreadsheet.
type File struct {
	Name    string   `json:"name"`
	Kind    FileKind `json:"kind"`
	Content string   `json:"content"`
}

// Info describes a file without its content.
type Info struct {
	Name string   `json:"name"`
	Kind FileKind `json:"kind"`
	Size int      `json:"size"`
}

func newFile(name, content string) (*File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	kind, _ := KindFromName(name)
	return &File{Name: name, Kind: kind, Content: content}, nil
}
