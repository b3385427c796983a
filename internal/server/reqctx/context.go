// Package reqctx carries per request metadata through a context.
package reqctx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/maruel/ksid"
)

// Request is what the server knows about the caller of a request.
type Request struct {
	ClientIP  string
	UserAgent string
	// SessionID is zero until the bearer token has been verified.
	SessionID ksid.ID
}

// LogValue implements slog.LogValuer.
func (r Request) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("ip", r.ClientIP), slog.String("ua", r.UserAgent)}
	if !r.SessionID.IsZero() {
		attrs = append(attrs, slog.String("sid", r.SessionID.String()))
	}
	return slog.GroupValue(attrs...)
}

// FromHTTP returns the metadata found in r's headers.
func FromHTTP(r *http.Request) Request {
	return Request{ClientIP: ClientIP(r), UserAgent: r.Header.Get("User-Agent")}
}

// ClientIP returns the address of the client, preferring the first
// X-Forwarded-For hop, then X-Real-IP, then the connection's peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return strings.Trim(r.RemoteAddr, "[]")
}

type key struct{}

// With returns a context carrying req.
func With(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, key{}, req)
}

// From returns the metadata stored by With, or the zero Request.
func From(ctx context.Context) Request {
	req, _ := ctx.Value(key{}).(Request)
	return req
}
