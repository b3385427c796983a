// Package handlers implements the HTTP API endpoints of the workspace.
//
// Handlers have the signature func(context.Context, *In) (*Out, error) and
// are adapted to http.Handler by server.Wrap. Domain errors are translated
// to dto.APIError by mapError.
package handlers

import (
	"errors"
	"net/http"

	"github.com/maruel/workpad/internal/aiflow"
	"github.com/maruel/workpad/internal/csvtable"
	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/storage"
	"github.com/maruel/workpad/internal/workspace"
)

// Services holds the service dependencies of the handlers.
type Services struct {
	Workspace *workspace.Store
	AI        *aiflow.Client // nil when no model is configured
}

// Config holds configuration values needed by handlers.
type Config struct {
	storage.ServerConfig
	Version string
}

// errNoModel is returned by AI endpoints when no model is configured.
var errNoModel = errors.New("no AI model configured, set GEMINI_API_KEY")

// mapError translates domain errors to API errors. Errors that already carry
// a status are returned unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var ews dto.ErrorWithStatus
	if errors.As(err, &ews) {
		return err
	}
	var in *aiflow.InputError
	switch {
	case errors.As(err, &in):
		return dto.BadRequest(in.Message).WithDetail("field", in.Field)
	case errors.Is(err, aiflow.ErrInvalidOutput):
		return dto.AIInvalidOutput(err)
	case errors.Is(err, aiflow.ErrUnavailable):
		return dto.AIUnavailable(err)

	case errors.Is(err, workspace.ErrNotFound):
		return dto.NewAPIError(http.StatusNotFound, dto.ErrorCodeFileNotFound, err.Error())
	case errors.Is(err, workspace.ErrExists),
		errors.Is(err, workspace.ErrKindMismatch),
		errors.Is(err, csvtable.ErrColumnExists):
		return dto.Conflict(err.Error())
	case errors.Is(err, workspace.ErrQuota):
		return dto.QuotaExceeded(err.Error())
	case errors.Is(err, workspace.ErrNotVersioned):
		return dto.NewAPIError(http.StatusNotImplemented, dto.ErrorCodeNotImplemented, err.Error())
	case errors.Is(err, workspace.ErrInvalidName),
		errors.Is(err, workspace.ErrUnsupportedKind),
		errors.Is(err, workspace.ErrNotSpreadsheet),
		errors.Is(err, workspace.ErrNotDocument),
		errors.Is(err, workspace.ErrInvalidSpreadsheet),
		errors.Is(err, workspace.ErrEmptyExport),
		errors.Is(err, workspace.ErrNoSelection),
		errors.Is(err, csvtable.ErrEmptyName),
		errors.Is(err, csvtable.ErrUnknownColumn),
		errors.Is(err, csvtable.ErrNoColumns):
		return dto.BadRequest(err.Error())
	}
	return dto.NewAPIError(http.StatusInternalServerError, dto.ErrorCodeStorageError, "storage error").Wrap(err)
}
