// Handles workspace-level endpoints: listing, save, revert and history.

package handlers

import (
	"context"
	"log/slog"

	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/workspace"
)

const defaultHistoryLimit = 50

// WorkspaceHandler handles workspace requests.
type WorkspaceHandler struct {
	ws *workspace.Store
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(svc *Services) *WorkspaceHandler {
	return &WorkspaceHandler{ws: svc.Workspace}
}

// GetWorkspace returns the file list, the selection and the dirty flag.
func (h *WorkspaceHandler) GetWorkspace(ctx context.Context, _ *dto.GetWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	return toWorkspaceResponse(h.ws), nil
}

// Save persists the working set.
func (h *WorkspaceHandler) Save(ctx context.Context, _ *dto.SaveWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	if err := h.ws.Save(ctx); err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "workspace saved", "files", len(h.ws.List()))
	return toWorkspaceResponse(h.ws), nil
}

// Revert discards unsaved changes.
func (h *WorkspaceHandler) Revert(ctx context.Context, _ *dto.RevertWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	h.ws.Revert()
	return toWorkspaceResponse(h.ws), nil
}

// History lists past saves, newest first.
func (h *WorkspaceHandler) History(ctx context.Context, req *dto.ListHistoryRequest) (*dto.HistoryResponse, error) {
	n := req.Limit
	if n == 0 {
		n = defaultHistoryLimit
	}
	revs, err := h.ws.History(ctx, n)
	if err != nil {
		return nil, mapError(err)
	}
	return &dto.HistoryResponse{Revisions: toRevisions(revs)}, nil
}

// Restore loads a past save into the working set. It is not saved.
func (h *WorkspaceHandler) Restore(ctx context.Context, req *dto.RestoreRequest) (*dto.WorkspaceResponse, error) {
	if err := h.ws.Restore(ctx, req.Rev); err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "workspace restored", "rev", req.Rev)
	return toWorkspaceResponse(h.ws), nil
}
