package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-process")
	t.Setenv("WORKPAD_PASSCODE", "from-process")
	t.Setenv("HTTP", "")

	dir := t.TempDir()
	env, err := loadDotEnv(dir)
	if err != nil {
		t.Fatal(err)
	}
	if env["GEMINI_API_KEY"] != "from-process" {
		t.Errorf("without .env: %v", env)
	}

	data := "# secrets\nWORKPAD_PASSCODE=\"from file\"\nHTTP=:9090\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	env, err = loadDotEnv(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"GEMINI_API_KEY":   "from-process",
		"WORKPAD_PASSCODE": "from file",
		"HTTP":             ":9090",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("%s = %q, want %q", k, env[k], v)
		}
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		v    slog.Value
		want bool
	}{
		{slog.StringValue(""), true},
		{slog.StringValue("x"), false},
		{slog.DurationValue(0), true},
		{slog.TimeValue(time.Time{}), true},
		{slog.AnyValue(nil), true},
		{slog.IntValue(0), false},
		{slog.BoolValue(false), false},
	}
	for _, tt := range tests {
		if got := isEmpty(tt.v); got != tt.want {
			t.Errorf("isEmpty(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}
