package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/server/handlers"
	"github.com/maruel/workpad/internal/server/ratelimit"
	"github.com/maruel/workpad/internal/storage"
	"github.com/maruel/workpad/internal/storage/blob"
	"github.com/maruel/workpad/internal/workspace"
)

var testJWTSecret = []byte("test-secret-key-32-bytes-long!!!")

const testPasscode = "open sesame"

type testEnv struct {
	server *httptest.Server
	cfg    *handlers.Config
	ws     *workspace.Store
}

func setupTestEnv(t *testing.T, limits storage.RateLimits) *testEnv {
	t.Helper()
	cfg := &handlers.Config{
		ServerConfig: storage.ServerConfig{
			JWTSecret:    testJWTSecret,
			SessionHours: 1,
			Quotas:       storage.ServerQuotas{MaxRequestBodyBytes: 1024},
		},
		Version: "test",
	}
	if err := cfg.SetPasscode(testPasscode); err != nil {
		t.Fatal(err)
	}
	ws := workspace.New(blob.NewMemory(), workspace.Limits{})
	if err := ws.Load(t.Context()); err != nil {
		t.Fatal(err)
	}
	svc := &handlers.Services{Workspace: ws}
	srv := httptest.NewServer(NewRouter(svc, cfg, ratelimit.New(limits)))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, cfg: cfg, ws: ws}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(t.Context(), method, e.server.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, b
}

func (e *testEnv) unlock(t *testing.T) string {
	t.Helper()
	resp, body := e.do(t, "POST", "/api/auth/unlock", "", `{"passcode":"`+testPasscode+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unlock: %d %s", resp.StatusCode, body)
	}
	var out dto.UnlockResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	return out.Token
}

func errorCode(t *testing.T, body []byte) dto.ErrorCode {
	t.Helper()
	var out dto.ErrorResponse
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("not an error response: %s", body)
	}
	return out.Error.Code
}

func TestUnlockFlow(t *testing.T) {
	env := setupTestEnv(t, storage.DefaultRateLimits())

	if resp, body := env.do(t, "GET", "/api/health", "", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("health: %d %s", resp.StatusCode, body)
	}

	t.Run("locked", func(t *testing.T) {
		resp, body := env.do(t, "GET", "/api/workspace", "", "")
		if resp.StatusCode != http.StatusUnauthorized || errorCode(t, body) != dto.ErrorCodeUnauthorized {
			t.Errorf("got %d %s", resp.StatusCode, body)
		}
	})
	t.Run("wrong passcode", func(t *testing.T) {
		resp, body := env.do(t, "POST", "/api/auth/unlock", "", `{"passcode":"nope"}`)
		if resp.StatusCode != http.StatusUnauthorized || errorCode(t, body) != dto.ErrorCodeInvalidPasscode {
			t.Errorf("got %d %s", resp.StatusCode, body)
		}
	})
	t.Run("bad tokens", func(t *testing.T) {
		expired, _, err := handlers.NewAuthHandler(env.cfg).GenerateToken(time.Now().Add(-2 * time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		other := &handlers.Config{ServerConfig: storage.ServerConfig{JWTSecret: []byte("another-secret"), SessionHours: 1}}
		forged, _, err := handlers.NewAuthHandler(other).GenerateToken(time.Now())
		if err != nil {
			t.Fatal(err)
		}
		for name, token := range map[string]string{"expired": expired, "forged": forged, "garbage": "abc"} {
			if resp, body := env.do(t, "GET", "/api/workspace", token, ""); resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("%s: got %d %s", name, resp.StatusCode, body)
			}
		}
	})

	token := env.unlock(t)

	t.Run("workspace", func(t *testing.T) {
		resp, body := env.do(t, "GET", "/api/workspace", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got %d %s", resp.StatusCode, body)
		}
		var ws dto.WorkspaceResponse
		if err := json.Unmarshal(body, &ws); err != nil {
			t.Fatal(err)
		}
		if ws.Selected != "document-1.md" || len(ws.Files) != 2 || ws.Dirty {
			t.Errorf("workspace = %+v", ws)
		}
		if resp.Header.Get("X-RateLimit-Limit") == "" {
			t.Error("missing rate limit headers")
		}
	})
	t.Run("edit and save", func(t *testing.T) {
		if resp, body := env.do(t, "PUT", "/api/files/document-1.md", token, `{"content":"# Hi"}`); resp.StatusCode != http.StatusOK {
			t.Fatalf("update: %d %s", resp.StatusCode, body)
		}
		if resp, body := env.do(t, "POST", "/api/sheets/spreadsheet-1.csv/cells", token, `{"row":1,"column":"Quantity","value":7}`); resp.StatusCode != http.StatusOK {
			t.Fatalf("set cell: %d %s", resp.StatusCode, body)
		}
		if resp, body := env.do(t, "POST", "/api/workspace/save", token, ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("save: %d %s", resp.StatusCode, body)
		}
		resp, body := env.do(t, "GET", "/api/workspace/history?limit=1", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("history: %d %s", resp.StatusCode, body)
		}
		var hist dto.HistoryResponse
		if err := json.Unmarshal(body, &hist); err != nil {
			t.Fatal(err)
		}
		if len(hist.Revisions) != 1 {
			t.Errorf("history = %+v", hist)
		}
	})
	t.Run("export", func(t *testing.T) {
		resp, body := env.do(t, "GET", "/api/files/spreadsheet-1.csv/export", token, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("got %d %s", resp.StatusCode, body)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "text/csv; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		if !bytes.Contains(body, []byte("2,Mouse,7,25")) {
			t.Errorf("export = %s", body)
		}
		if resp, _ := env.do(t, "GET", "/api/files/spreadsheet-1.csv/export", "", ""); resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("export without token: %d", resp.StatusCode)
		}
	})
	t.Run("bad requests", func(t *testing.T) {
		tests := []struct {
			method, path, body string
			status             int
			code               dto.ErrorCode
		}{
			{"POST", "/api/files", `{"name":"a.md","bogus":1}`, http.StatusBadRequest, dto.ErrorCodeInvalidFormat},
			{"POST", "/api/files", `{"name":"a.md","content":"` + strings.Repeat("x", 2048) + `"}`, http.StatusRequestEntityTooLarge, dto.ErrorCodePayloadTooLarge},
			{"POST", "/api/files", `{"name":"a.txt"}`, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
			{"GET", "/api/files/missing.md", "", http.StatusNotFound, dto.ErrorCodeFileNotFound},
			{"POST", "/api/ai/chat", `{"instruction":"hi"}`, http.StatusBadGateway, dto.ErrorCodeAIUnavailable},
		}
		for _, tt := range tests {
			resp, body := env.do(t, tt.method, tt.path, token, tt.body)
			if resp.StatusCode != tt.status || errorCode(t, body) != tt.code {
				t.Errorf("%s %s: got %d %s, want %d %s", tt.method, tt.path, resp.StatusCode, body, tt.status, tt.code)
			}
		}
	})
}

func TestUnlockRateLimit(t *testing.T) {
	env := setupTestEnv(t, storage.RateLimits{UnlockRatePerMin: 2})
	for i := range 2 {
		if resp, body := env.do(t, "POST", "/api/auth/unlock", "", `{"passcode":"nope"}`); resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d: %d %s", i, resp.StatusCode, body)
		}
	}
	resp, body := env.do(t, "POST", "/api/auth/unlock", "", `{"passcode":"`+testPasscode+`"}`)
	if resp.StatusCode != http.StatusTooManyRequests || errorCode(t, body) != dto.ErrorCodeRateLimitExceeded {
		t.Fatalf("got %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	// Health is never limited.
	if resp, _ := env.do(t, "GET", "/api/health", "", ""); resp.StatusCode != http.StatusOK {
		t.Errorf("health: %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestEnv(t, storage.RateLimits{})
	env.do(t, "GET", "/api/health", "", "")
	resp, body := env.do(t, "GET", "/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("got %d", resp.StatusCode)
	}
	if !bytes.Contains(body, []byte(`path="GET /api/health"`)) {
		t.Errorf("health request not recorded:\n%s", body)
	}
}
