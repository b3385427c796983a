package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/maruel/workpad/internal/storage/blob"
)

// blobKey is the key the whole workspace is saved under.
const blobKey = "workspace.json"

// Limits bounds the working set. Zero values mean no limit.
type Limits struct {
	MaxFiles     int
	MaxFileBytes int64
}

// Store owns the files of a workspace. It keeps a working set that every
// operation mutates and the last saved set; Save and Load move between the
// two and the blob store.
//
// Store is safe for concurrent use.
type Store struct {
	blobs  blob.Store
	limits Limits

	mu       sync.RWMutex
	files    map[string]*File
	saved    map[string]string
	selected string
}

// New returns an empty store persisted to blobs. Call Load to populate it.
func New(blobs blob.Store, limits Limits) *Store {
	return &Store{
		blobs:  blobs,
		limits: limits,
		files:  map[string]*File{},
		saved:  map[string]string{},
	}
}

// Load replaces the working and saved sets with the saved workspace. A
// workspace that was never saved, or saved empty, starts with the built-in
// files.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.blobs.Get(ctx, blobKey)
	if err != nil && !errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("failed to load workspace: %w", err)
	}
	var contents map[string]string
	if len(data) != 0 {
		if contents, err = decodeSet(ctx, data); err != nil {
			return err
		}
	}
	selected := ""
	if len(contents) == 0 {
		if contents, selected, err = defaults(); err != nil {
			return err
		}
		slog.InfoContext(ctx, "workspace: starting with default files", "files", len(contents))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setWorking(contents)
	s.saved = maps.Clone(contents)
	s.selected = selected
	s.fixSelection()
	return nil
}

// Save writes the working set to the blob store and makes it the saved set.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	contents := s.contents()
	data, err := json.MarshalIndent(contents, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}
	if err := s.blobs.Put(ctx, blobKey, data); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	s.saved = contents
	slog.InfoContext(ctx, "workspace: saved", "files", len(contents), "bytes", len(data))
	return nil
}

// Revert discards unsaved changes.
func (s *Store) Revert() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setWorking(s.saved)
	s.fixSelection()
}

// Dirty returns true when the working set differs from the saved set.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !maps.Equal(s.contents(), s.saved)
}

// History lists past saves, newest first. It needs a versioned blob store.
func (s *Store) History(ctx context.Context, n int) ([]blob.Revision, error) {
	v, ok := s.blobs.(blob.Versioned)
	if !ok {
		return nil, ErrNotVersioned
	}
	return v.History(ctx, blobKey, n)
}

// Restore replaces the working set with the files of a past save. The saved
// set is unchanged, so the workspace is dirty until the next Save.
func (s *Store) Restore(ctx context.Context, rev string) error {
	v, ok := s.blobs.(blob.Versioned)
	if !ok {
		return ErrNotVersioned
	}
	data, err := v.GetAt(ctx, blobKey, rev)
	if errors.Is(err, blob.ErrNotFound) {
		return fmt.Errorf("revision %q: %w", rev, ErrNotFound)
	} else if err != nil {
		return fmt.Errorf("failed to read revision %q: %w", rev, err)
	}
	contents, err := decodeSet(ctx, data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setWorking(contents)
	s.fixSelection()
	return nil
}

// List returns the files sorted by name.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Info, 0, len(s.files))
	for _, name := range slices.Sorted(maps.Keys(s.files)) {
		f := s.files[name]
		out = append(out, Info{Name: f.Name, Kind: f.Kind, Size: len(f.Content)})
	}
	return out
}

// Get returns a copy of the named file.
func (s *Store) Get(name string) (File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[name]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return *f, nil
}

// Selected returns the selected file name, or "" when the workspace is
// empty.
func (s *Store) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Create adds a file. The kind is derived from the extension.
func (s *Store) Create(name, content string) (File, error) {
	f, err := newFile(name, content)
	if err != nil {
		return File{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; ok {
		return File{}, fmt.Errorf("%w: %q", ErrExists, name)
	}
	if s.limits.MaxFiles > 0 && len(s.files) >= s.limits.MaxFiles {
		return File{}, fmt.Errorf("%w: at most %d files", ErrQuota, s.limits.MaxFiles)
	}
	if err := s.checkSize(content); err != nil {
		return File{}, err
	}
	s.files[name] = f
	if s.selected == "" {
		s.selected = name
	}
	return *f, nil
}

// Rename renames a file, keeping its content and selection. The new name
// must map to the same kind.
func (s *Store) Rename(oldName, newName string) (File, error) {
	if err := ValidateName(newName); err != nil {
		return File{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[oldName]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}
	if oldName == newName {
		return *f, nil
	}
	if _, ok := s.files[newName]; ok {
		return File{}, fmt.Errorf("%w: %q", ErrExists, newName)
	}
	if k, _ := KindFromName(newName); k != f.Kind {
		return File{}, fmt.Errorf("%w: %s to %s", ErrKindMismatch, f.Kind, k)
	}
	delete(s.files, oldName)
	f.Name = newName
	s.files[newName] = f
	if s.selected == oldName {
		s.selected = newName
	}
	return *f, nil
}

// Delete removes a file. If it was selected, the selection moves to the first
// remaining file by name.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.files, name)
	s.fixSelection()
	return nil
}

// Select makes name the selected file.
func (s *Store) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	s.selected = name
	return nil
}

// SetContent replaces the content of a file.
func (s *Store) SetContent(name, content string) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[name]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err := s.checkSize(content); err != nil {
		return File{}, err
	}
	f.Content = content
	return *f, nil
}

// SetDocumentContent is SetContent restricted to documents.
func (s *Store) SetDocumentContent(name, content string) (File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.files[name]
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if f.Kind != Document {
		return File{}, fmt.Errorf("%w: %q", ErrNotDocument, name)
	}
	if err := s.checkSize(content); err != nil {
		return File{}, err
	}
	f.Content = content
	return *f, nil
}

func (s *Store) checkSize(content string) error {
	if s.limits.MaxFileBytes > 0 && int64(len(content)) > s.limits.MaxFileBytes {
		return fmt.Errorf("%w: file larger than %d bytes", ErrQuota, s.limits.MaxFileBytes)
	}
	return nil
}

// contents returns the working set as name to content. Must hold mu.
func (s *Store) contents() map[string]string {
	m := make(map[string]string, len(s.files))
	for name, f := range s.files {
		m[name] = f.Content
	}
	return m
}

// setWorking replaces the working set. Must hold mu.
func (s *Store) setWorking(contents map[string]string) {
	s.files = make(map[string]*File, len(contents))
	for name, content := range contents {
		if f, err := newFile(name, content); err == nil {
			s.files[name] = f
		}
	}
}

// fixSelection keeps the selection if the file still exists, otherwise falls
// back to the first file by name. Must hold mu.
func (s *Store) fixSelection() {
	if _, ok := s.files[s.selected]; !ok {
		s.selected = s.firstName()
	}
}

func (s *Store) firstName() string {
	if len(s.files) == 0 {
		return ""
	}
	return slices.Min(slices.Collect(maps.Keys(s.files)))
}

// decodeSet parses a saved workspace, dropping entries that are not valid
// file names.
func decodeSet(ctx context.Context, data []byte) (map[string]string, error) {
	var contents map[string]string
	if err := json.Unmarshal(data, &contents); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", blobKey, err)
	}
	for name := range contents {
		if err := ValidateName(name); err != nil {
			slog.WarnContext(ctx, "workspace: skipping file", "name", name, "err", err)
			delete(contents, name)
		}
	}
	return contents, nil
}
