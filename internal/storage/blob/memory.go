package blob

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/maruel/workpad/internal/metrics"
)

// Memory is a Versioned store held in memory. Revisions are numbered from 1
// per key.
type Memory struct {
	mu   sync.Mutex
	revs map[string][]memRev
}

type memRev struct {
	data []byte
	at   time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{revs: map[string][]memRev{}}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) (_ []byte, err error) {
	defer func(start time.Time) {
		record("memory", "get", start, err == nil || errors.Is(err, ErrNotFound))
	}(time.Now())
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	revs := m.revs[key]
	if len(revs) == 0 {
		return nil, ErrNotFound
	}
	return slices.Clone(revs[len(revs)-1].data), nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, data []byte) (err error) {
	defer func(start time.Time) { record("memory", "put", start, err == nil) }(time.Now())
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revs[key] = append(m.revs[key], memRev{data: slices.Clone(data), at: time.Now()})
	return nil
}

// History implements Versioned.
func (m *Memory) History(_ context.Context, key string, n int) ([]Revision, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	revs := m.revs[key]
	var out []Revision
	for i := len(revs) - 1; i >= 0 && (n <= 0 || len(out) < n); i-- {
		out = append(out, Revision{ID: strconv.Itoa(i + 1), Message: "Save " + key, Time: revs[i].at})
	}
	return out, nil
}

// GetAt implements Versioned.
func (m *Memory) GetAt(_ context.Context, key, id string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	i, err := strconv.Atoi(id)
	if err != nil {
		return nil, ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	revs := m.revs[key]
	if i < 1 || i > len(revs) {
		return nil, ErrNotFound
	}
	return slices.Clone(revs[i-1].data), nil
}

func record(backend, op string, start time.Time, success bool) {
	metrics.RecordBlobOperation(backend, op, time.Since(start), success)
}
