package workspace

import (
	"errors"
	"testing"
)

func TestStore_Export(t *testing.T) {
	s, _ := newTestStore(t)
	if _, err := s.Create("empty.md", ""); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		mime string
		want error
	}{
		{"document-1.md", "text/markdown; charset=utf-8", nil},
		{"spreadsheet-1.csv", "text/csv; charset=utf-8", nil},
		{"empty.md", "", ErrEmptyExport},
		{"missing.md", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := s.Export(tt.name)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Export() error = %v, want %v", err, tt.want)
			}
			if tt.want != nil {
				return
			}
			f, _ := s.Get(tt.name)
			if e.FileName != tt.name || e.ContentType != tt.mime || string(e.Content) != f.Content {
				t.Errorf("Export() = {%q, %q, %d bytes}", e.FileName, e.ContentType, len(e.Content))
			}
		})
	}
}

func TestKindFromName(t *testing.T) {
	tests := []struct {
		name string
		want FileKind
		err  error
	}{
		{"a.md", Document, nil},
		{"A.MD", Document, nil},
		{"b.csv", Spreadsheet, nil},
		{"b.Csv", Spreadsheet, nil},
		{"c.txt", 0, ErrUnsupportedKind},
		{"md", 0, ErrUnsupportedKind},
	}
	for _, tt := range tests {
		got, err := KindFromName(tt.name)
		if got != tt.want || !errors.Is(err, tt.err) {
			t.Errorf("KindFromName(%q) = %v, %v, want %v, %v", tt.name, got, err, tt.want, tt.err)
		}
	}
}
