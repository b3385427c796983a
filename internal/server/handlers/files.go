// Handles file endpoints.

package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/workspace"
)

// FileHandler handles file requests.
type FileHandler struct {
	ws *workspace.Store
}

// NewFileHandler creates a new file handler.
func NewFileHandler(svc *Services) *FileHandler {
	return &FileHandler{ws: svc.Workspace}
}

// CreateFile creates a document or spreadsheet, depending on the extension.
func (h *FileHandler) CreateFile(ctx context.Context, req *dto.CreateFileRequest) (*dto.FileResponse, error) {
	f, err := h.ws.Create(req.Name, req.Content)
	if err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "file created", "name", f.Name, "kind", f.Kind)
	return toFileResponse(h.ws, f)
}

// GetFile returns a file with its content.
func (h *FileHandler) GetFile(ctx context.Context, req *dto.GetFileRequest) (*dto.FileResponse, error) {
	f, err := h.ws.Get(req.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return toFileResponse(h.ws, f)
}

// UpdateFile replaces a file's content.
func (h *FileHandler) UpdateFile(ctx context.Context, req *dto.UpdateFileRequest) (*dto.FileResponse, error) {
	f, err := h.ws.SetContent(req.Name, req.Content)
	if err != nil {
		return nil, mapError(err)
	}
	return toFileResponse(h.ws, f)
}

// RenameFile renames a file. The extension cannot change the kind.
func (h *FileHandler) RenameFile(ctx context.Context, req *dto.RenameFileRequest) (*dto.FileResponse, error) {
	f, err := h.ws.Rename(req.Name, req.NewName)
	if err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "file renamed", "from", req.Name, "to", f.Name)
	return toFileResponse(h.ws, f)
}

// SelectFile makes a file the selected one.
func (h *FileHandler) SelectFile(ctx context.Context, req *dto.SelectFileRequest) (*dto.WorkspaceResponse, error) {
	if err := h.ws.Select(req.Name); err != nil {
		return nil, mapError(err)
	}
	return toWorkspaceResponse(h.ws), nil
}

// DeleteFile deletes a file.
func (h *FileHandler) DeleteFile(ctx context.Context, req *dto.DeleteFileRequest) (*dto.WorkspaceResponse, error) {
	if err := h.ws.Delete(req.Name); err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "file deleted", "name", req.Name)
	return toWorkspaceResponse(h.ws), nil
}

// ExportFile serves the raw file as a download.
func (h *FileHandler) ExportFile(w http.ResponseWriter, r *http.Request) {
	exp, err := h.ws.Export(r.PathValue("name"))
	if err != nil {
		writeErrorResponse(w, mapError(err))
		return
	}
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": exp.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(exp.Content)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(exp.Content); err != nil {
		slog.WarnContext(r.Context(), "export interrupted", "name", exp.FileName, "err", err)
	}
}
