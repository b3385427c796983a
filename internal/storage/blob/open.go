package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendLocal    Backend = "local"
	BackendS3       Backend = "s3"
	BackendPostgres Backend = "postgres"
	BackendMemory   Backend = "memory"
)

// Config selects and configures a backend.
type Config struct {
	Backend  Backend        `json:"backend"`
	S3       S3Config       `json:"s3,omitzero"`
	Postgres PostgresConfig `json:"postgres,omitzero"`
}

// PostgresConfig configures the PostgreSQL backend.
type PostgresConfig struct {
	DSN string `json:"dsn"`
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendLocal, BackendMemory:
	case BackendS3:
		if c.S3.Bucket == "" {
			return errors.New("s3.bucket is required")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres.dsn is required")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Open returns the configured Store. The local backend lives in
// dataDir/workspace.
func Open(ctx context.Context, c *Config, dataDir string) (Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var s Store
	var err error
	switch c.Backend {
	case BackendS3:
		s, err = NewS3(ctx, c.S3)
	case BackendPostgres:
		s, err = OpenPostgres(ctx, c.Postgres.DSN)
	case BackendMemory:
		s = NewMemory()
	default:
		s, err = NewLocal(filepath.Join(dataDir, "workspace"))
	}
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", c.Backend, err)
	}
	return s, nil
}
