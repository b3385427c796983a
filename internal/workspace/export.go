package workspace

import "fmt"

// Export is a file ready to be downloaded.
type Export struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Export returns the named file for download. An empty file cannot be
// exported.
func (s *Store) Export(name string) (Export, error) {
	f, err := s.Get(name)
	if err != nil {
		return Export{}, err
	}
	if f.Content == "" {
		return Export{}, fmt.Errorf("%w: %q", ErrEmptyExport, name)
	}
	return Export{
		FileName:    f.Name,
		ContentType: f.Kind.MIMEType(),
		Content:     []byte(f.Content),
	}, nil
}
