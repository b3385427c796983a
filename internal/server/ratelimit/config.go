// Defines rate limit tiers and routing rules.

package ratelimit

import (
	"net/http"
	"strings"
	"time"

	"github.com/maruel/workpad/internal/storage"
)

// Scope defines how rate limit keys are determined.
type Scope int

const (
	// ScopeIP uses client IP address as the rate limit key.
	ScopeIP Scope = iota
	// ScopeSession uses the unlocked session ID as the rate limit key.
	ScopeSession
)

// Tier is a named limiter with its key scope.
type Tier struct {
	Name    string
	Limiter *Limiter
	Scope   Scope
}

// Limiters holds the tiers. A nil tier is unlimited.
type Limiters struct {
	Unlock *Tier
	AI     *Tier
	Write  *Tier
	Read   *Tier
}

// New builds the tiers from per-minute limits.
func New(c storage.RateLimits) *Limiters {
	return &Limiters{
		Unlock: newTier("unlock", c.UnlockRatePerMin, c.UnlockRatePerMin, ScopeIP),
		AI:     newTier("ai", c.AIRatePerMin, c.AIRatePerMin/4, ScopeSession),
		Write:  newTier("write", c.WriteRatePerMin, c.WriteRatePerMin/6, ScopeSession),
		Read:   newTier("read", c.ReadRatePerMin, c.ReadRatePerMin/6, ScopeSession),
	}
}

func newTier(name string, perMin, burst int, scope Scope) *Tier {
	if perMin <= 0 {
		return nil
	}
	return &Tier{
		Name:    name,
		Limiter: NewLimiter(perMin, time.Minute, max(burst, 1)),
		Scope:   scope,
	}
}

// Match returns the tier for a request, or nil when it is not rate limited.
// A nil receiver matches nothing.
func (l *Limiters) Match(method, path string) *Tier {
	if l == nil || path == "/api/health" {
		return nil
	}
	switch {
	case method == http.MethodPost && path == "/api/auth/unlock":
		return l.Unlock
	case method == http.MethodPost && strings.HasPrefix(path, "/api/ai/"):
		return l.AI
	case method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete:
		return l.Write
	case method == http.MethodGet:
		return l.Read
	}
	return nil
}
