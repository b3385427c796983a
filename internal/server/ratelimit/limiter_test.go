package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	l := NewLimiter(5, time.Minute, 5)
	for i := range 5 {
		r := l.Allow("ip:1.2.3.4:unlock")
		if !r.Allowed {
			t.Fatalf("request %d refused", i+1)
		}
		if r.Limit != 5 {
			t.Errorf("Limit = %d, want 5", r.Limit)
		}
		if r.RetryAfter != 0 {
			t.Errorf("RetryAfter = %v on allowed request", r.RetryAfter)
		}
		if r.ResetAt.IsZero() {
			t.Error("ResetAt is zero")
		}
	}
	r := l.Allow("ip:1.2.3.4:unlock")
	if r.Allowed {
		t.Fatal("6th request allowed")
	}
	if r.Remaining != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining)
	}
	// One token every 12s.
	if r.RetryAfter < 10*time.Second || r.RetryAfter > 12*time.Second {
		t.Errorf("RetryAfter = %v, want about 12s", r.RetryAfter)
	}
}

func TestLimiter_keys(t *testing.T) {
	l := NewLimiter(1, time.Minute, 1)
	if !l.Allow("a").Allowed {
		t.Fatal("a refused")
	}
	if l.Allow("a").Allowed {
		t.Error("a allowed twice")
	}
	if !l.Allow("b").Allowed {
		t.Error("b shares a's bucket")
	}
	if got := l.size(); got != 2 {
		t.Errorf("size() = %d, want 2", got)
	}
}

func TestLimiter_sweep(t *testing.T) {
	l := NewLimiter(60, time.Minute, 10)
	l.Allow("old")
	later := time.Now().Add(2 * idleTTL)
	l.mu.Lock()
	l.sweep(later)
	l.mu.Unlock()
	if got := l.size(); got != 0 {
		t.Errorf("size() = %d after sweep, want 0", got)
	}
}
