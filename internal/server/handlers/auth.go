// Handles the passcode gate.

package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maruel/ksid"

	"github.com/maruel/workpad/internal/metrics"
	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/server/reqctx"
)

// AuthHandler exchanges the passcode for a session token.
type AuthHandler struct {
	cfg *Config
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// Unlock checks the passcode and issues a session token.
func (h *AuthHandler) Unlock(ctx context.Context, req *dto.UnlockRequest) (*dto.UnlockResponse, error) {
	ok := h.cfg.CheckPasscode(req.Passcode)
	metrics.RecordUnlockAttempt(ok)
	if !ok {
		slog.WarnContext(ctx, "unlock refused", "req", reqctx.From(ctx))
		return nil, dto.InvalidPasscode()
	}
	token, expiresAt, err := h.GenerateToken(time.Now())
	if err != nil {
		return nil, dto.InternalWithError("failed to generate token", err)
	}
	slog.InfoContext(ctx, "unlocked", "req", reqctx.From(ctx))
	return &dto.UnlockResponse{Token: token, ExpiresAt: expiresAt.Format(time.RFC3339)}, nil
}

// GenerateToken signs a token for a new session starting at now.
func (h *AuthHandler) GenerateToken(now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(h.cfg.SessionTTL())
	claims := jwt.MapClaims{
		"sid": ksid.NewID().String(),
		"exp": expiresAt.Unix(),
		"iat": now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.cfg.JWTSecret)
	return token, expiresAt, err
}
