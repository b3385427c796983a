// Handles spreadsheet editing endpoints.

package handlers

import (
	"context"

	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/workspace"
)

// SheetHandler handles spreadsheet edits.
type SheetHandler struct {
	ws *workspace.Store
}

// NewSheetHandler creates a new sheet handler.
func NewSheetHandler(svc *Services) *SheetHandler {
	return &SheetHandler{ws: svc.Workspace}
}

// SetCell sets one cell. Out of range cells are ignored.
func (h *SheetHandler) SetCell(ctx context.Context, req *dto.SetCellRequest) (*dto.SheetResponse, error) {
	t, err := h.ws.SetCell(req.Name, req.Row, req.Column, toValue(req.Value))
	if err != nil {
		return nil, mapError(err)
	}
	return toSheetResponse(req.Name, t), nil
}

// AddColumn appends a column.
func (h *SheetHandler) AddColumn(ctx context.Context, req *dto.AddColumnRequest) (*dto.SheetResponse, error) {
	t, err := h.ws.AddColumn(req.Name, req.Column)
	if err != nil {
		return nil, mapError(err)
	}
	return toSheetResponse(req.Name, t), nil
}

// RenameColumn renames a column.
func (h *SheetHandler) RenameColumn(ctx context.Context, req *dto.RenameColumnRequest) (*dto.SheetResponse, error) {
	t, err := h.ws.RenameColumn(req.Name, req.Old, req.New)
	if err != nil {
		return nil, mapError(err)
	}
	return toSheetResponse(req.Name, t), nil
}

// AddRow appends an empty row.
func (h *SheetHandler) AddRow(ctx context.Context, req *dto.AddRowRequest) (*dto.SheetResponse, error) {
	t, err := h.ws.AddRow(req.Name)
	if err != nil {
		return nil, mapError(err)
	}
	return toSheetResponse(req.Name, t), nil
}
