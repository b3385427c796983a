package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maruel/workpad/internal/storage/blob"
)

func TestLoadServerConfig(t *testing.T) {
	t.Run("creates defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadServerConfig(dir, "")
		if err != nil {
			t.Fatalf("LoadServerConfig() failed: %v", err)
		}
		if len(cfg.JWTSecret) != 32 {
			t.Errorf("JWTSecret is %d bytes, want 32", len(cfg.JWTSecret))
		}
		if !cfg.CheckPasscode(DefaultPasscode) {
			t.Error("default passcode rejected")
		}
		if cfg.CheckPasscode("4321") {
			t.Error("wrong passcode accepted")
		}
		if cfg.Storage.Backend != blob.BackendLocal {
			t.Errorf("Storage.Backend = %q, want local", cfg.Storage.Backend)
		}
		if got := cfg.SessionTTL().Hours(); got != 24 {
			t.Errorf("SessionTTL() = %vh, want 24h", got)
		}
		st, err := os.Stat(filepath.Join(dir, "server_config.json"))
		if err != nil {
			t.Fatalf("config not written: %v", err)
		}
		if perm := st.Mode().Perm(); perm != 0o600 {
			t.Errorf("mode = %o, want 600", perm)
		}

		// Reloading keeps the secret and ignores a new seed passcode.
		again, err := LoadServerConfig(dir, "9999")
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(again.JWTSecret, cfg.JWTSecret) {
			t.Error("JWTSecret changed on reload")
		}
		if !again.CheckPasscode(DefaultPasscode) {
			t.Error("stored passcode hash was replaced")
		}
	})

	t.Run("seed passcode", func(t *testing.T) {
		cfg, err := LoadServerConfig(t.TempDir(), "s3cret")
		if err != nil {
			t.Fatal(err)
		}
		if !cfg.CheckPasscode("s3cret") || cfg.CheckPasscode(DefaultPasscode) {
			t.Error("seeded passcode not used")
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		data := `{"ai": {"model": "gemini-2.5-flash", "temperature": 0.7}}`
		if err := os.WriteFile(filepath.Join(dir, "server_config.json"), []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadServerConfig(dir, "")
		if err != nil {
			t.Fatal(err)
		}
		if cfg.AI.Model != "gemini-2.5-flash" || cfg.AI.Temperature != 0.7 {
			t.Errorf("AI = %+v", cfg.AI)
		}
		if cfg.RateLimits != DefaultRateLimits() {
			t.Errorf("RateLimits = %+v, want defaults", cfg.RateLimits)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		tests := []struct {
			name string
			data string
			want string
		}{
			{"bad json", `{`, "failed to parse"},
			{"short secret", `{"jwt_secret": "c2hvcnQ="}`, "at least 32 bytes"},
			{"negative rate", `{"rate_limits": {"ai_rate_per_min": -1}}`, "ai_rate_per_min"},
			{"unknown backend", `{"storage": {"backend": "ftp"}}`, "unknown backend"},
			{"temperature", `{"ai": {"temperature": 3}}`, "temperature"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				dir := t.TempDir()
				if err := os.WriteFile(filepath.Join(dir, "server_config.json"), []byte(tt.data), 0o600); err != nil {
					t.Fatal(err)
				}
				_, err := LoadServerConfig(dir, "")
				if err == nil || !strings.Contains(err.Error(), tt.want) {
					t.Errorf("LoadServerConfig() error = %v, want containing %q", err, tt.want)
				}
			})
		}
	})
}

func TestServerConfig_SetPasscode(t *testing.T) {
	var cfg ServerConfig
	if err := cfg.SetPasscode(""); err == nil {
		t.Error("empty passcode accepted")
	}
	if err := cfg.SetPasscode("abcd"); err != nil {
		t.Fatal(err)
	}
	if !cfg.CheckPasscode("abcd") {
		t.Error("CheckPasscode() = false after SetPasscode")
	}
}
