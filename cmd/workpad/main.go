// Package main is the entry point for the workpad server.
//
// workpad is a single user workspace of markdown documents and CSV
// spreadsheets with AI assisted editing, behind a passcode. Configuration is
// read from CLI flags, a .env file in the data directory (for secrets) and
// server_config.json (for JWT secret, storage, quotas and rate limits).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/maruel/workpad/internal/aiflow"
	"github.com/maruel/workpad/internal/server"
	"github.com/maruel/workpad/internal/server/handlers"
	"github.com/maruel/workpad/internal/server/ratelimit"
	"github.com/maruel/workpad/internal/storage"
	"github.com/maruel/workpad/internal/storage/blob"
	"github.com/maruel/workpad/internal/workspace"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "workpad: %v\n", err)
		os.Exit(1)
	}
}

// options are the settings that may come from a flag or from the
// environment.
type options struct {
	httpAddr  string
	dataDir   string
	logLevel  string
	passcode  string
	model     string
	ephemeral bool
	apiKey    string
}

// envKeys maps flag names to the environment variable that supplies them
// when the flag is not given.
var envKeys = map[string]string{
	"http":      "HTTP",
	"log-level": "LOG_LEVEL",
	"passcode":  "WORKPAD_PASSCODE",
	"model":     "WORKPAD_MODEL",
}

func mainImpl() error {
	var o options
	version := flag.Bool("version", false, "Print version and exit")
	flag.StringVar(&o.httpAddr, "http", "localhost:8080", "Address to listen on; use 0.0.0.0:port to listen on all interfaces")
	flag.StringVar(&o.dataDir, "data-dir", "./data", "Data directory")
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&o.passcode, "passcode", "", "Passcode that unlocks the workspace; replaces the stored one")
	flag.StringVar(&o.model, "model", "", "Generative model name (default from server_config.json)")
	flag.BoolVar(&o.ephemeral, "ephemeral", false, "Keep the workspace in memory only")
	flag.Parse()
	if flag.NArg() > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	if *version {
		b := readBuildInfo()
		fmt.Printf("workpad %s\n%s\n", b.version, b)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	level := &slog.LevelVar{}
	slog.SetDefault(newLogger(os.Stderr, level))

	if err := os.MkdirAll(o.dataDir, 0o755); err != nil { //nolint:gosec // G301: data directory
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	env, err := loadDotEnv(o.dataDir)
	if err != nil {
		return err
	}
	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for name, key := range envKeys {
		if v := env[key]; v != "" && !explicit[name] {
			if err := flag.Set(name, v); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	o.apiKey = env["GEMINI_API_KEY"]
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return fmt.Errorf("unknown log level: %q", o.logLevel)
	}
	return run(ctx, stop, &o)
}

func run(ctx context.Context, stop context.CancelFunc, o *options) error {
	cfg, err := storage.LoadServerConfig(o.dataDir, o.passcode)
	if err != nil {
		return fmt.Errorf("failed to load server_config.json: %w", err)
	}
	if o.passcode != "" && !cfg.CheckPasscode(o.passcode) {
		if err = cfg.SetPasscode(o.passcode); err == nil {
			err = cfg.Save(o.dataDir)
		}
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "Passcode updated")
	}
	if o.model != "" {
		cfg.AI.Model = o.model
	}
	if o.ephemeral {
		cfg.Storage = blob.Config{Backend: blob.BackendMemory}
	}

	blobs, err := blob.Open(ctx, &cfg.Storage, o.dataDir)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	if c, ok := blobs.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	ws := workspace.New(blobs, workspace.Limits{MaxFiles: cfg.Quotas.MaxFiles, MaxFileBytes: cfg.Quotas.MaxFileBytes})
	if err := ws.Load(ctx); err != nil {
		return err
	}
	svc := &handlers.Services{Workspace: ws}
	if o.apiKey == "" {
		slog.WarnContext(ctx, "GEMINI_API_KEY is not set, AI flows are disabled")
	} else {
		gen, err := aiflow.NewGenAI(ctx, o.apiKey, cfg.AI.Model)
		if err != nil {
			return fmt.Errorf("failed to initialize AI: %w", err)
		}
		svc.AI = aiflow.NewClient(gen, aiflow.Options{Temperature: cfg.AI.Temperature, Timeout: cfg.AI.Timeout()})
		slog.InfoContext(ctx, "AI enabled", "model", cfg.AI.Model)
	}

	if err := restartOnRebuild(ctx, stop); err != nil {
		return fmt.Errorf("failed to watch executable: %w", err)
	}

	addr := o.httpAddr
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	b := readBuildInfo()
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.NewRouter(svc, &handlers.Config{ServerConfig: *cfg, Version: b.version}, ratelimit.New(cfg.RateLimits)),
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	done := make(chan error, 1)
	go func() {
		slog.InfoContext(ctx, "Listening", "addr", addr, "storage", cfg.Storage.Backend, "version", b.version)
		done <- srv.ListenAndServe()
	}()

	select {
	case err := <-done:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	if ws.Dirty() {
		slog.Warn("Unsaved changes discarded")
	}
	return nil
}

// loadDotEnv returns the process environment for the known keys, overlaid
// with dataDir/.env.
func loadDotEnv(dataDir string) (map[string]string, error) {
	env := map[string]string{}
	for _, k := range []string{"HTTP", "LOG_LEVEL", "WORKPAD_PASSCODE", "WORKPAD_MODEL", "GEMINI_API_KEY"} {
		if v := os.Getenv(k); v != "" {
			env[k] = v
		}
	}
	file, err := godotenv.Read(filepath.Join(dataDir, ".env"))
	if errors.Is(err, os.ErrNotExist) {
		return env, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	for k, v := range file {
		if v != "" {
			env[k] = v
		}
	}
	return env, nil
}
