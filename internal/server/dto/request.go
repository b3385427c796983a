package dto

import (
	"fmt"
	"strings"
)

// Validatable is implemented by every request type. Wrap calls Validate
// after the body and parameters are decoded.
type Validatable interface {
	Validate() error
}

// --- Health & auth ---

// HealthRequest is a request to check system health.
type HealthRequest struct{}

// Validate is a no-op for HealthRequest.
func (r *HealthRequest) Validate() error {
	return nil
}

// UnlockRequest exchanges the passcode for a session token.
type UnlockRequest struct {
	Passcode string `json:"passcode"`
}

// Validate validates the unlock request fields.
func (r *UnlockRequest) Validate() error {
	if r.Passcode == "" {
		return MissingField("passcode")
	}
	return nil
}

// --- Workspace ---

// GetWorkspaceRequest is a request for the file list and selection.
type GetWorkspaceRequest struct{}

// Validate is a no-op for GetWorkspaceRequest.
func (r *GetWorkspaceRequest) Validate() error {
	return nil
}

// SaveWorkspaceRequest persists the working set.
type SaveWorkspaceRequest struct{}

// Validate is a no-op for SaveWorkspaceRequest.
func (r *SaveWorkspaceRequest) Validate() error {
	return nil
}

// RevertWorkspaceRequest discards unsaved changes.
type RevertWorkspaceRequest struct{}

// Validate is a no-op for RevertWorkspaceRequest.
func (r *RevertWorkspaceRequest) Validate() error {
	return nil
}

// ListHistoryRequest lists past saves.
type ListHistoryRequest struct {
	Limit int `query:"limit"`
}

// Validate validates the list history request fields.
func (r *ListHistoryRequest) Validate() error {
	if r.Limit < 0 {
		return InvalidField("limit", "limit must be non-negative")
	}
	return nil
}

// RestoreRequest loads a past save into the working set.
type RestoreRequest struct {
	Rev string `path:"rev"`
}

// Validate validates the restore request fields.
func (r *RestoreRequest) Validate() error {
	if r.Rev == "" {
		return MissingField("rev")
	}
	return nil
}

// --- Files ---

// CreateFileRequest creates a document or spreadsheet.
type CreateFileRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Validate validates the create file request fields.
func (r *CreateFileRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return MissingField("name")
	}
	return nil
}

// GetFileRequest is a request for one file.
type GetFileRequest struct {
	Name string `path:"name"`
}

// Validate validates the get file request fields.
func (r *GetFileRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// UpdateFileRequest replaces a file's content.
type UpdateFileRequest struct {
	Name    string `path:"name"`
	Content string `json:"content"`
}

// Validate validates the update file request fields.
func (r *UpdateFileRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// RenameFileRequest renames a file.
type RenameFileRequest struct {
	Name    string `path:"name"`
	NewName string `json:"new_name"`
}

// Validate validates the rename file request fields.
func (r *RenameFileRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	if strings.TrimSpace(r.NewName) == "" {
		return MissingField("new_name")
	}
	return nil
}

// SelectFileRequest makes a file the selected one.
type SelectFileRequest struct {
	Name string `path:"name"`
}

// Validate validates the select file request fields.
func (r *SelectFileRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// DeleteFileRequest deletes a file.
type DeleteFileRequest struct {
	Name string `path:"name"`
}

// Validate validates the delete file request fields.
func (r *DeleteFileRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// --- Sheets ---

// SetCellRequest sets one spreadsheet cell. Value is a JSON string or
// number; null clears the cell.
type SetCellRequest struct {
	Name   string `path:"name"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  any    `json:"value"`
}

// Validate validates the set cell request fields.
func (r *SetCellRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	if r.Column == "" {
		return MissingField("column")
	}
	switch r.Value.(type) {
	case nil, string, float64:
	default:
		return InvalidField("value", fmt.Sprintf("value must be a string or a number, got %T", r.Value))
	}
	return nil
}

// AddColumnRequest appends a column.
type AddColumnRequest struct {
	Name   string `path:"name"`
	Column string `json:"column"`
}

// Validate validates the add column request fields.
func (r *AddColumnRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	if r.Column == "" {
		return MissingField("column")
	}
	return nil
}

// RenameColumnRequest renames a column.
type RenameColumnRequest struct {
	Name string `path:"name"`
	Old  string `json:"old"`
	New  string `json:"new"`
}

// Validate validates the rename column request fields.
func (r *RenameColumnRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	if r.Old == "" {
		return MissingField("old")
	}
	if r.New == "" {
		return MissingField("new")
	}
	return nil
}

// AddRowRequest appends an empty row.
type AddRowRequest struct {
	Name string `path:"name"`
}

// Validate validates the add row request fields.
func (r *AddRowRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// --- AI ---
//
// File defaults to the selected file.

// GrammarRequest corrects a document in place.
type GrammarRequest struct {
	File string `json:"file,omitempty"`
}

// Validate is a no-op for GrammarRequest.
func (r *GrammarRequest) Validate() error {
	return nil
}

// RewriteRequest rewrites a document, or only SelectedText when set.
type RewriteRequest struct {
	File         string `json:"file,omitempty"`
	SelectedText string `json:"selected_text,omitempty"`
	Instructions string `json:"instructions"`
}

// Validate validates the rewrite request fields.
func (r *RewriteRequest) Validate() error {
	if strings.TrimSpace(r.Instructions) == "" {
		return BadRequest("Please provide rewrite instructions.").WithDetail("field", "instructions")
	}
	return nil
}

// ChatMessage is one turn of the chat about a document.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest asks for a suggested rewrite of a document.
type ChatRequest struct {
	File        string        `json:"file,omitempty"`
	Instruction string        `json:"instruction"`
	History     []ChatMessage `json:"history,omitempty"`
}

// Validate validates the chat request fields.
func (r *ChatRequest) Validate() error {
	if strings.TrimSpace(r.Instruction) == "" {
		return MissingField("instruction")
	}
	for _, m := range r.History {
		if m.Role != "user" && m.Role != "bot" {
			return InvalidField("history", "role must be user or bot")
		}
	}
	return nil
}

// ManipulateRequest transforms a spreadsheet in place.
type ManipulateRequest struct {
	File        string `json:"file,omitempty"`
	Instruction string `json:"instruction"`
}

// Validate validates the manipulate request fields.
func (r *ManipulateRequest) Validate() error {
	if strings.TrimSpace(r.Instruction) == "" {
		return BadRequest("Please provide data manipulation instructions.").WithDetail("field", "instruction")
	}
	return nil
}

// FormulaRequest generates a formula over a spreadsheet's columns.
type FormulaRequest struct {
	File        string `json:"file,omitempty"`
	Description string `json:"description"`
}

// Validate validates the formula request fields.
func (r *FormulaRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return MissingField("description")
	}
	return nil
}
