// Package git keeps a directory under version control with go-git. Every
// change made through Update becomes one commit on the current branch.
package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotFound is returned by Show when the revision or the file in it does
// not exist, including when nothing was committed yet.
var ErrNotFound = errors.New("git: not found")

// maxLog caps Log.
const maxLog = 1000

// Commit is one entry of Log.
type Commit struct {
	Hash    string
	Subject string
	When    time.Time
}

// Repo is a working directory with its repository.
type Repo struct {
	mu   sync.Mutex
	dir  string
	name string
	mail string
	r    *gogit.Repository
}

// Open returns the repository at dir, creating and initializing it if
// needed. name and email sign every commit.
func Open(dir, name, email string) (*Repo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: data directory
		return nil, err
	}
	r, err := gogit.PlainOpen(dir)
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		r, err = gogit.PlainInit(dir, false)
	}
	if err != nil {
		return nil, fmt.Errorf("git %s: %w", dir, err)
	}
	return &Repo{dir: dir, name: name, mail: email, r: r}, nil
}

// Path returns the absolute path of name in the working directory.
func (g *Repo) Path(name string) string {
	return filepath.Join(g.dir, filepath.FromSlash(name))
}

// Update runs write, which returns the paths it touched, and commits them
// with msg. Nothing is committed when write fails or when the touched files
// are identical to HEAD; changed reports whether a commit was made.
func (g *Repo) Update(ctx context.Context, msg string, write func() ([]string, error)) (changed bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	paths, err := write()
	if err != nil || len(paths) == 0 {
		return false, err
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	wt, err := g.r.Worktree()
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return false, fmt.Errorf("git add %s: %w", p, err)
		}
	}
	st, err := wt.Status()
	if err != nil {
		return false, err
	}
	for _, p := range paths {
		if s := st.File(p).Staging; s != gogit.Unmodified && s != gogit.Untracked {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	sig := &object.Signature{Name: g.name, Email: g.mail, When: time.Now()}
	if _, err := wt.Commit(msg, &gogit.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return false, fmt.Errorf("git commit: %w", err)
	}
	return true, nil
}

// Log returns up to limit commits touching path, newest first. path "" means
// the whole tree; limit <= 0 means the maximum of 1000.
func (g *Repo) Log(path string, limit int) ([]Commit, error) {
	if limit <= 0 || limit > maxLog {
		limit = maxLog
	}
	opts := &gogit.LogOptions{}
	if path != "" {
		opts.FileName = &path
	}
	it, err := g.r.Log(opts)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	defer it.Close()
	var out []Commit
	for len(out) < limit {
		c, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		out = append(out, Commit{Hash: c.Hash.String(), Subject: subject, When: c.Committer.When})
	}
	return out, nil
}

// Show returns path as of rev, which may be anything git rev-parse accepts
// such as "HEAD", a branch or a full or abbreviated hash.
func (g *Repo) Show(rev, path string) ([]byte, error) {
	h, err := g.r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("%w: revision %q", ErrNotFound, rev)
	}
	c, err := g.r.CommitObject(*h)
	if err != nil {
		return nil, fmt.Errorf("%w: revision %q", ErrNotFound, rev)
	}
	f, err := c.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %s at %s", ErrNotFound, path, rev)
	} else if err != nil {
		return nil, err
	}
	s, err := f.Contents()
	return []byte(s), err
}
