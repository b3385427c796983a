// Package blob defines the key-value blob stores the workspace is persisted
// to, and their backends: a git-versioned local directory, S3, PostgreSQL and
// memory.
package blob

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned by Get when the key has never been written, and by
// GetAt when the revision does not exist.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidKey is returned for keys that are not a plain file name.
var ErrInvalidKey = errors.New("invalid blob key")

// Store reads and writes whole blobs by key.
type Store interface {
	// Get returns the blob stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put replaces the blob stored under key.
	Put(ctx context.Context, key string, data []byte) error
}

// Versioned is implemented by stores that keep every Put.
type Versioned interface {
	Store
	// History returns the revisions of key, newest first, at most n.
	History(ctx context.Context, key string, n int) ([]Revision, error)
	// GetAt returns the blob stored under key at revision id.
	GetAt(ctx context.Context, key, id string) ([]byte, error)
}

// Revision is one past Put of a key.
type Revision struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ValidateKey rejects keys that could escape a directory or bucket prefix.
func ValidateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
