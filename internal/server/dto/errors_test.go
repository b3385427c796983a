package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAPIError(t *testing.T) {
	t.Run("Details", func(t *testing.T) {
		err := Conflict("taken")
		if err.Details() != nil {
			t.Errorf("Details() = %v, want nil", err.Details())
		}
		err.WithDetail("name", "a.md").WithDetail("limit", 255)
		if d := err.Details(); d["name"] != "a.md" || d["limit"] != 255 {
			t.Errorf("Details() = %v", d)
		}
	})
	t.Run("Wrap", func(t *testing.T) {
		orig := errors.New("disk full")
		err := InternalWithError("failed to save", orig)
		if !errors.Is(err, orig) {
			t.Error("wrapped error is not reachable with errors.Is")
		}
		if err.Error() != "failed to save: disk full" {
			t.Errorf("Error() = %q", err.Error())
		}
	})
}

func TestNewErrorResponse(t *testing.T) {
	status, resp := NewErrorResponse(fmt.Errorf("loading: %w", FileNotFound("a.md")))
	if status != http.StatusNotFound || resp.Error.Code != ErrorCodeFileNotFound || resp.Details["name"] != "a.md" {
		t.Errorf("got %d %+v", status, resp)
	}
	status, resp = NewErrorResponse(errors.New("secret path /etc/x"))
	if status != http.StatusInternalServerError || resp.Error.Message != "internal error" || resp.Details != nil {
		t.Errorf("got %d %+v", status, resp)
	}
}

func TestErrorConstructors(t *testing.T) {
	orig := errors.New("boom")
	tests := []struct {
		name    string
		err     *APIError
		status  int
		code    ErrorCode
		message string
	}{
		{"FileNotFound", FileNotFound("a.md"), http.StatusNotFound, ErrorCodeFileNotFound, "file not found"},
		{"BadRequest", BadRequest("invalid input"), http.StatusBadRequest, ErrorCodeValidationFailed, "invalid input"},
		{"MissingField", MissingField("name"), http.StatusBadRequest, ErrorCodeMissingField, "Missing required field: name"},
		{"InvalidField", InvalidField("row", "row must be non-negative"), http.StatusBadRequest, ErrorCodeInvalidFormat, "row must be non-negative"},
		{"Conflict", Conflict("file already exists"), http.StatusConflict, ErrorCodeConflict, "file already exists"},
		{"Unauthorized", Unauthorized(), http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized"},
		{"InvalidPasscode", InvalidPasscode(), http.StatusUnauthorized, ErrorCodeInvalidPasscode, "Incorrect passcode"},
		{"PayloadTooLarge", PayloadTooLarge(10), http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "request body too large"},
		{"QuotaExceeded", QuotaExceeded("too many files"), http.StatusRequestEntityTooLarge, ErrorCodeQuotaExceeded, "too many files"},
		{"RateLimitExceeded", RateLimitExceeded(30), http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "rate limit exceeded"},
		{"AIUnavailable", AIUnavailable(orig), http.StatusBadGateway, ErrorCodeAIUnavailable, "AI service unavailable: boom"},
		{"AIInvalidOutput", AIInvalidOutput(orig), http.StatusBadGateway, ErrorCodeAIInvalidOutput, "AI returned an invalid response: boom"},
		{"InternalWithError", InternalWithError("server error", orig), http.StatusInternalServerError, ErrorCodeInternal, "server error: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.StatusCode() != tt.status {
				t.Errorf("StatusCode() = %d, want %d", tt.err.StatusCode(), tt.status)
			}
			if tt.err.Code() != tt.code {
				t.Errorf("Code() = %s, want %s", tt.err.Code(), tt.code)
			}
			if tt.err.Error() != tt.message {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.message)
			}
		})
	}
	if got := MissingField("passcode").Details()["field"]; got != "passcode" {
		t.Errorf("field = %v, want passcode", got)
	}
	if got := RateLimitExceeded(30).Details()["retry_after"]; got != 30 {
		t.Errorf("retry_after = %v, want 30", got)
	}
}
