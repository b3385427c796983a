// Adapts typed handler functions to http.Handler.

package server

import (
	"bytes"
	"context"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/ksid"

	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/server/handlers"
	"github.com/maruel/workpad/internal/server/ratelimit"
	"github.com/maruel/workpad/internal/server/reqctx"
)

// request is the constraint on handler inputs: a pointer to a struct that
// validates itself.
type request[In any] interface {
	*In
	dto.Validatable
}

// Wrap adapts fn for a route that is open without a session, like health and
// unlock. Limits on these routes are keyed by client IP.
//
// The request body is decoded as JSON into In, unknown fields rejected.
// Fields tagged `path:"name"` and `query:"name"` are then filled from the URL
// and Validate is called before fn runs:
//
//	type RenameFileRequest struct {
//	    Name    string `path:"name"`
//	    NewName string `json:"new_name"`
//	}
func Wrap[In any, P request[In], Out any](fn func(context.Context, P) (*Out, error), cfg *handlers.Config, limiters *ratelimit.Limiters) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := withRequestMetadata(r)
		w, ok := throttle(w, r, limiters, 0)
		if !ok {
			return
		}
		call(ctx, w, r, fn, cfg)
	})
}

// WrapAuth is Wrap for routes behind the passcode gate. The bearer token
// must be valid; its session ID is added to the context and keys the
// session scoped limits.
func WrapAuth[In any, P request[In], Out any](fn func(context.Context, P) (*Out, error), cfg *handlers.Config, limiters *ratelimit.Limiters) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, sid, ok := authenticate(w, r, cfg)
		if !ok {
			return
		}
		if w, ok = throttle(w, r, limiters, sid); !ok {
			return
		}
		call(ctx, w, r, fn, cfg)
	})
}

// WrapAuthRaw gates a plain handler, for responses that are not JSON such as
// file downloads.
func WrapAuthRaw(fn http.HandlerFunc, cfg *handlers.Config, limiters *ratelimit.Limiters) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, sid, ok := authenticate(w, r, cfg)
		if !ok {
			return
		}
		if w, ok = throttle(w, r, limiters, sid); !ok {
			return
		}
		if n := cfg.Quotas.MaxRequestBodyBytes; n > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, n)
		}
		fn(w, r.WithContext(ctx))
	})
}

// call decodes and validates the input, runs fn and writes its result.
func call[In any, P request[In], Out any](ctx context.Context, w http.ResponseWriter, r *http.Request, fn func(context.Context, P) (*Out, error), cfg *handlers.Config) {
	in := P(new(In))
	if err := decodeBody(w, r, in, cfg.Quotas.MaxRequestBodyBytes); err != nil {
		writeError(ctx, w, err)
		return
	}
	bindURL(r, in)
	if err := in.Validate(); err != nil {
		writeError(ctx, w, err)
		return
	}
	out, err := fn(ctx, in)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		slog.WarnContext(ctx, "Failed to encode response", "err", err)
	}
}

func withRequestMetadata(r *http.Request) context.Context {
	return reqctx.With(r.Context(), reqctx.FromHTTP(r))
}

// authenticate checks the bearer token. On failure it writes a 401 and
// returns false.
func authenticate(w http.ResponseWriter, r *http.Request, cfg *handlers.Config) (context.Context, ksid.ID, bool) {
	ctx := withRequestMetadata(r)
	sid, err := parseSessionToken(r.Header.Get("Authorization"), cfg.JWTSecret)
	if err != nil {
		slog.InfoContext(ctx, "Rejected request", "path", r.URL.Path, "req", reqctx.From(ctx), "err", err)
		writeError(ctx, w, dto.Unauthorized())
		return ctx, 0, false
	}
	req := reqctx.From(ctx)
	req.SessionID = sid
	return reqctx.With(ctx, req), sid, true
}

// throttle applies the tier matching the request, if any. The returned
// writer adds the X-RateLimit headers. When the request is refused a 429 has
// been written and false is returned.
func throttle(w http.ResponseWriter, r *http.Request, limiters *ratelimit.Limiters, sid ksid.ID) (http.ResponseWriter, bool) {
	tier := limiters.Match(r.Method, r.URL.Path)
	if tier == nil {
		return w, true
	}
	id := reqctx.ClientIP(r)
	if tier.Scope == ratelimit.ScopeSession && !sid.IsZero() {
		id = sid.String()
	}
	res := tier.Limiter.Allow(ratelimit.BuildKey(tier.Scope, id, tier.Name))
	w = ratelimit.NewResponseWriter(w, res)
	if !res.Allowed {
		writeError(r.Context(), w, dto.RateLimitExceeded(int(res.RetryAfter.Seconds())))
		return w, false
	}
	return w, true
}

var (
	errNoToken       = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization is not a bearer token")
	errBadToken      = errors.New("invalid token")
	errNoSessionInID = errors.New("token has no valid session ID")
)

// parseSessionToken verifies an HS256 token issued by unlock and returns its
// sid claim. The parser rejects expired tokens and tokens without exp.
func parseSessionToken(header string, secret []byte) (ksid.ID, error) {
	if header == "" {
		return 0, errNoToken
	}
	scheme, raw, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || raw == "" {
		return 0, errNotBearer
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errBadToken, err)
	}
	s, _ := claims["sid"].(string)
	sid, err := ksid.Parse(s)
	if err != nil || sid.IsZero() {
		return 0, errNoSessionInID
	}
	return sid, nil
}

// decodeBody reads at most limit bytes of JSON into in. An empty body leaves
// in untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, in any, limit int64) error {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	body, err := io.ReadAll(r.Body)
	if err2 := r.Body.Close(); err == nil {
		err = err2
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return dto.PayloadTooLarge(tooLarge.Limit)
	case err != nil:
		return dto.NewAPIError(http.StatusBadRequest, dto.ErrorCodeInvalidFormat, "Failed to read request body").Wrap(err)
	case len(body) == 0:
		return nil
	}
	d := json.NewDecoder(bytes.NewReader(body))
	d.DisallowUnknownFields()
	if err := d.Decode(in); err != nil {
		return dto.NewAPIError(http.StatusBadRequest, dto.ErrorCodeInvalidFormat, "Invalid request body").Wrap(err)
	}
	return nil
}

var textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()

// bindURL copies path wildcards and query parameters into the fields of the
// struct in points to, per their `path` and `query` tags. Values that do not
// parse are ignored and left for Validate to catch.
func bindURL(r *http.Request, in any) {
	v := reflect.ValueOf(in)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()
	t := v.Type()
	query := r.URL.Query()
	for i := range t.NumField() {
		f := t.Field(i)
		var s string
		if name := f.Tag.Get("path"); name != "" {
			s = r.PathValue(name)
		} else if name := f.Tag.Get("query"); name != "" {
			s = query.Get(name)
		}
		if s == "" {
			continue
		}
		field := v.Field(i)
		switch {
		case f.Type.Kind() == reflect.String:
			field.SetString(s)
		case f.Type.Kind() == reflect.Int:
			if n, err := strconv.Atoi(s); err == nil {
				field.SetInt(int64(n))
			}
		case reflect.PointerTo(f.Type).Implements(textUnmarshalerType):
			_ = field.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s))
		}
	}
}

// writeError writes err as a dto.ErrorResponse. Errors without a status are
// reported as a bare 500 so internal details don't leak.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, resp := dto.NewErrorResponse(err)
	level := slog.LevelInfo
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "Request failed", "status", status, "code", resp.Error.Code, "err", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.WarnContext(ctx, "Failed to encode error response", "err", err)
	}
}
