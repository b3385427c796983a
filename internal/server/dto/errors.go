// Package dto defines the JSON shapes of the API: request types that bind
// and validate themselves, response types, and the error envelope every
// failure is reported with.
package dto

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a failure for API clients.
type ErrorCode string

// Request problems.
const (
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrorCodeInvalidFormat    ErrorCode = "INVALID_FORMAT"
	ErrorCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorCodeConflict         ErrorCode = "CONFLICT"
	ErrorCodeFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"
)

// Access problems.
const (
	ErrorCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrorCodeInvalidPasscode   ErrorCode = "INVALID_PASSCODE"
	ErrorCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// Server side problems.
const (
	ErrorCodeInternal       ErrorCode = "INTERNAL_ERROR"
	ErrorCodeStorageError   ErrorCode = "STORAGE_ERROR"
	ErrorCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"
	// ErrorCodeAIUnavailable means the model call failed or timed out.
	ErrorCodeAIUnavailable ErrorCode = "AI_UNAVAILABLE"
	// ErrorCodeAIInvalidOutput means the model answered with something that
	// cannot be applied.
	ErrorCodeAIInvalidOutput ErrorCode = "AI_INVALID_OUTPUT"
)

// ErrorDetails is the "error" member of ErrorResponse.
type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error   ErrorDetails   `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorWithStatus is implemented by errors that know how they should be
// reported over HTTP.
type ErrorWithStatus interface {
	error
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// NewErrorResponse returns the status and body for err. Errors that don't
// implement ErrorWithStatus become an opaque 500.
func NewErrorResponse(err error) (int, ErrorResponse) {
	var ews ErrorWithStatus
	if !errors.As(err, &ews) {
		return http.StatusInternalServerError, ErrorResponse{Error: ErrorDetails{Code: ErrorCodeInternal, Message: "internal error"}}
	}
	return ews.StatusCode(), ErrorResponse{
		Error:   ErrorDetails{Code: ews.Code(), Message: ews.Error()},
		Details: ews.Details(),
	}
}

// APIError is the ErrorWithStatus returned by handlers.
type APIError struct {
	status  int
	code    ErrorCode
	msg     string
	details map[string]any
	cause   error
}

// NewAPIError returns an error reported as status with code and msg.
func NewAPIError(status int, code ErrorCode, msg string) *APIError {
	return &APIError{status: status, code: code, msg: msg}
}

// WithDetail sets a key of the response's details object.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = map[string]any{}
	}
	e.details[key] = value
	return e
}

// Wrap records the underlying cause. It is appended to the message.
func (e *APIError) Wrap(err error) *APIError {
	e.cause = err
	return e
}

func (e *APIError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *APIError) Unwrap() error           { return e.cause }
func (e *APIError) StatusCode() int         { return e.status }
func (e *APIError) Code() ErrorCode         { return e.code }
func (e *APIError) Details() map[string]any { return e.details }

// FileNotFound is a 404 for a workspace file.
func FileNotFound(name string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeFileNotFound, "file not found").WithDetail("name", name)
}

// BadRequest is a 400 for input that fails validation.
func BadRequest(msg string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, msg)
}

// MissingField is a 400 for a required field left empty.
func MissingField(field string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeMissingField, "Missing required field: "+field).WithDetail("field", field)
}

// InvalidField is a 400 naming the offending field.
func InvalidField(field, msg string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidFormat, msg).WithDetail("field", field)
}

// Conflict is a 409.
func Conflict(msg string) *APIError {
	return NewAPIError(http.StatusConflict, ErrorCodeConflict, msg)
}

// Unauthorized is the 401 for a missing, expired or forged token.
func Unauthorized() *APIError {
	return NewAPIError(http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized")
}

// InvalidPasscode is the 401 for a failed unlock.
func InvalidPasscode() *APIError {
	return NewAPIError(http.StatusUnauthorized, ErrorCodeInvalidPasscode, "Incorrect passcode")
}

// PayloadTooLarge is a 413 for a body over limit bytes.
func PayloadTooLarge(limit int64) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "request body too large").WithDetail("limit", limit)
}

// QuotaExceeded is a 413 for a workspace quota.
func QuotaExceeded(msg string) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodeQuotaExceeded, msg)
}

// RateLimitExceeded is a 429; retryAfter is in seconds.
func RateLimitExceeded(retryAfter int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimitExceeded, "rate limit exceeded").WithDetail("retry_after", retryAfter)
}

// AIUnavailable is a 502 for a failed model call.
func AIUnavailable(err error) *APIError {
	return NewAPIError(http.StatusBadGateway, ErrorCodeAIUnavailable, "AI service unavailable").Wrap(err)
}

// AIInvalidOutput is a 502 for a model reply that cannot be applied.
func AIInvalidOutput(err error) *APIError {
	return NewAPIError(http.StatusBadGateway, ErrorCodeAIInvalidOutput, "AI returned an invalid response").Wrap(err)
}

// InternalWithError is a 500 that keeps err for the logs.
func InternalWithError(msg string, err error) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, msg).Wrap(err)
}
