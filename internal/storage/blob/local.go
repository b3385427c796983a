package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/maruel/workpad/internal/storage/git"
)

// Local stores one file per key in a directory that is also a git
// repository. Every Put that changes a blob is a commit, which is what
// History lists.
type Local struct {
	repo *git.Repo
}

// NewLocal opens or initializes the repository at dir.
func NewLocal(dir string) (*Local, error) {
	repo, err := git.Open(dir, "workpad", "workpad@localhost")
	if err != nil {
		return nil, err
	}
	return &Local{repo: repo}, nil
}

// Get implements Store.
func (l *Local) Get(_ context.Context, key string) ([]byte, error) {
	start := time.Now()
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(l.repo.Path(key)) //nolint:gosec // G304: key is validated
	if errors.Is(err, fs.ErrNotExist) {
		err = ErrNotFound
	}
	record("local", "get", start, err == nil || errors.Is(err, ErrNotFound))
	return data, err
}

// Put implements Store. The file is replaced atomically then committed.
func (l *Local) Put(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	if err := ValidateKey(key); err != nil {
		return err
	}
	_, err := l.repo.Update(ctx, "Save "+key, func() ([]string, error) {
		return []string{key}, writeFileAtomic(l.repo.Path(key), data)
	})
	record("local", "put", start, err == nil)
	return err
}

// History implements Versioned.
func (l *Local) History(_ context.Context, key string, n int) ([]Revision, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	commits, err := l.repo.Log(key, n)
	if err != nil {
		return nil, err
	}
	out := make([]Revision, 0, len(commits))
	for _, c := range commits {
		out = append(out, Revision{ID: c.Hash, Message: c.Subject, Time: c.When})
	}
	return out, nil
}

// GetAt implements Versioned.
func (l *Local) GetAt(_ context.Context, key, id string) ([]byte, error) {
	start := time.Now()
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	data, err := l.repo.Show(id, key)
	if errors.Is(err, git.ErrNotFound) {
		err = ErrNotFound
	}
	record("local", "get_at", start, err == nil || errors.Is(err, ErrNotFound))
	return data, err
}

// writeFileAtomic writes data to a temporary file in the same directory and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()
	if _, err = f.Write(data); err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}
