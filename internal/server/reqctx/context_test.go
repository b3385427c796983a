package reqctx

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/maruel/ksid"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff, xri   string
		remoteAddr string
		want       string
	}{
		{"forwarded", "203.0.113.195", "", "127.0.0.1:8080", "203.0.113.195"},
		{"forwarded chain", "203.0.113.195, 70.41.3.18", "", "127.0.0.1:8080", "203.0.113.195"},
		{"forwarded spaces", "  203.0.113.195  ", "", "127.0.0.1:8080", "203.0.113.195"},
		{"forwarded wins over real ip", "203.0.113.195", "10.0.0.1", "127.0.0.1:8080", "203.0.113.195"},
		{"real ip", "", "203.0.113.7", "127.0.0.1:8080", "203.0.113.7"},
		{"remote with port", "", "", "192.168.1.1:12345", "192.168.1.1"},
		{"remote without port", "", "", "192.168.1.1", "192.168.1.1"},
		{"ipv6 remote", "", "", "[::1]:8080", "::1"},
		{"ipv6 remote without port", "", "", "[::1]", "::1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/health", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWith(t *testing.T) {
	if got := From(context.Background()); got != (Request{}) {
		t.Fatalf("From(empty) = %+v", got)
	}
	r := httptest.NewRequest("GET", "/api/workspace", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("User-Agent", "curl/8")
	req := FromHTTP(r)
	req.SessionID = ksid.NewID()
	got := From(With(t.Context(), req))
	if got != req {
		t.Errorf("From() = %+v, want %+v", got, req)
	}
	if got.ClientIP != "10.0.0.1" || got.UserAgent != "curl/8" {
		t.Errorf("FromHTTP() = %+v", got)
	}
}

func TestRequest_LogValue(t *testing.T) {
	v := Request{ClientIP: "10.0.0.1"}.LogValue()
	if n := len(v.Group()); n != 2 {
		t.Errorf("anonymous request has %d attrs, want 2", n)
	}
	v = Request{ClientIP: "10.0.0.1", SessionID: ksid.NewID()}.LogValue()
	if n := len(v.Group()); n != 3 || v.Group()[2].Key != "sid" {
		t.Errorf("LogValue() = %v", v)
	}
	var _ slog.LogValuer = Request{}
}
