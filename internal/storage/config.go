// Package storage holds the server settings persisted next to the workspace
// in server_config.json.
package storage

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/maruel/workpad/internal/storage/blob"
)

// DefaultPasscode seeds the passcode hash when nothing else is provided.
const DefaultPasscode = "1234"

const configFile = "server_config.json"

// ServerConfig is the content of server_config.json. Missing members keep
// their default; the JWT secret and the passcode hash are generated on
// first load.
type ServerConfig struct {
	JWTSecret []byte `json:"jwt_secret"`
	// PasscodeHash is a bcrypt hash.
	PasscodeHash string       `json:"passcode_hash"`
	SessionHours int          `json:"session_hours" jsonschema:"description=Session token lifetime in hours"`
	Storage      blob.Config  `json:"storage"`
	AI           AIConfig     `json:"ai"`
	Quotas       ServerQuotas `json:"quotas"`
	RateLimits   RateLimits   `json:"rate_limits"`
}

// AIConfig configures the generative model behind the AI flows.
type AIConfig struct {
	// Model is the model name. Empty uses the client default.
	Model          string  `json:"model" jsonschema:"description=Generative model name"`
	Temperature    float32 `json:"temperature" jsonschema:"description=Sampling temperature between 0 and 2"`
	TimeoutSeconds int     `json:"timeout_seconds" jsonschema:"description=Per call timeout in seconds (0=no limit)"`
}

// Timeout returns the per call timeout, 0 when unlimited.
func (a *AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// Validate checks the AI settings.
func (a *AIConfig) Validate() error {
	if a.Temperature < 0 || a.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	return nonNegative(field{"timeout_seconds", int64(a.TimeoutSeconds)})
}

// RateLimits are in requests per minute; 0 disables the tier.
type RateLimits struct {
	// UnlockRatePerMin is keyed by client IP, the others by session.
	UnlockRatePerMin int `json:"unlock_rate_per_min"`
	AIRatePerMin     int `json:"ai_rate_per_min"`
	WriteRatePerMin  int `json:"write_rate_per_min"`
	ReadRatePerMin   int `json:"read_rate_per_min"`
}

func (r *RateLimits) Validate() error {
	return nonNegative(
		field{"unlock_rate_per_min", int64(r.UnlockRatePerMin)},
		field{"ai_rate_per_min", int64(r.AIRatePerMin)},
		field{"write_rate_per_min", int64(r.WriteRatePerMin)},
		field{"read_rate_per_min", int64(r.ReadRatePerMin)},
	)
}

// ServerQuotas bound what a client may store. 0 means no limit, except for
// MaxRequestBodyBytes which is required.
type ServerQuotas struct {
	MaxRequestBodyBytes int64 `json:"max_request_body_bytes"`
	MaxFiles            int   `json:"max_files"`
	MaxFileBytes        int64 `json:"max_file_bytes"`
}

func (q *ServerQuotas) Validate() error {
	if q.MaxRequestBodyBytes <= 0 {
		return errors.New("max_request_body_bytes must be positive")
	}
	return nonNegative(field{"max_files", int64(q.MaxFiles)}, field{"max_file_bytes", q.MaxFileBytes})
}

// DefaultAIConfig returns the AI settings used when server_config.json has
// none.
func DefaultAIConfig() AIConfig {
	return AIConfig{Temperature: 0.2, TimeoutSeconds: 60}
}

// DefaultRateLimits returns the limits used when server_config.json has
// none.
func DefaultRateLimits() RateLimits {
	return RateLimits{UnlockRatePerMin: 5, AIRatePerMin: 20, WriteRatePerMin: 300, ReadRatePerMin: 6000}
}

// DefaultServerQuotas returns the quotas used when server_config.json has
// none.
func DefaultServerQuotas() ServerQuotas {
	return ServerQuotas{MaxRequestBodyBytes: 10 << 20, MaxFiles: 1000, MaxFileBytes: 5 << 20}
}

func (c *ServerConfig) Validate() error {
	switch {
	case len(c.JWTSecret) < 32:
		return errors.New("jwt_secret must be at least 32 bytes")
	case c.SessionHours <= 0:
		return errors.New("session_hours must be positive")
	}
	if _, err := bcrypt.Cost([]byte(c.PasscodeHash)); err != nil {
		return fmt.Errorf("passcode_hash: %w", err)
	}
	for _, s := range []struct {
		name string
		v    interface{ Validate() error }
	}{{"storage", &c.Storage}, {"ai", &c.AI}, {"quotas", &c.Quotas}, {"rate_limits", &c.RateLimits}} {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// SessionTTL returns the lifetime of a session token.
func (c *ServerConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionHours) * time.Hour
}

// SetPasscode replaces the passcode hash.
func (c *ServerConfig) SetPasscode(passcode string) error {
	if passcode == "" {
		return errors.New("passcode is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasscodeHash = string(h)
	return nil
}

// CheckPasscode reports whether passcode matches the stored hash.
func (c *ServerConfig) CheckPasscode(passcode string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.PasscodeHash), []byte(passcode)) == nil
}

// LoadServerConfig reads dataDir/server_config.json over the defaults.
//
// A missing JWT secret is generated. A missing passcode hash is seeded from
// passcode, or DefaultPasscode when passcode is empty. The file is rewritten
// when either happens so that they survive a restart.
func LoadServerConfig(dataDir, passcode string) (*ServerConfig, error) {
	cfg := &ServerConfig{
		SessionHours: 24,
		Storage:      blob.Config{Backend: blob.BackendLocal},
		AI:           DefaultAIConfig(),
		Quotas:       DefaultServerQuotas(),
		RateLimits:   DefaultRateLimits(),
	}
	data, err := os.ReadFile(filepath.Join(dataDir, configFile)) //nolint:gosec // G304: fixed name under dataDir
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", configFile, err)
		}
	}

	dirty := false
	if len(cfg.JWTSecret) == 0 {
		cfg.JWTSecret = make([]byte, 32)
		_, _ = rand.Read(cfg.JWTSecret)
		dirty = true
	}
	if cfg.PasscodeHash == "" {
		if passcode == "" {
			slog.Warn("No passcode configured, using the default; set -passcode or WORKPAD_PASSCODE", "passcode", DefaultPasscode)
			passcode = DefaultPasscode
		}
		if err := cfg.SetPasscode(passcode); err != nil {
			return nil, err
		}
		dirty = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configFile, err)
	}
	if dirty {
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Save writes the configuration to dataDir/server_config.json, readable only
// by the owner since it holds the JWT secret.
func (c *ServerConfig) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dataDir, configFile), append(data, '\n'), 0o600)
}

type field struct {
	name string
	v    int64
}

func nonNegative(fields ...field) error {
	for _, f := range fields {
		if f.v < 0 {
			return fmt.Errorf("%s must be non-negative", f.name)
		}
	}
	return nil
}
