// Handles the AI endpoints.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/maruel/workpad/internal/aiflow"
	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/textdiff"
	"github.com/maruel/workpad/internal/workspace"
)

// AIHandler runs the AI flows against workspace files. Grammar, rewrite and
// manipulate apply their result only when the flow succeeds; chat returns a
// suggestion that the client applies with UpdateFile.
type AIHandler struct {
	ws *workspace.Store
	ai *aiflow.Client
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(svc *Services) *AIHandler {
	return &AIHandler{ws: svc.Workspace, ai: svc.AI}
}

// CorrectGrammar proofreads a document and stores the result.
func (h *AIHandler) CorrectGrammar(ctx context.Context, req *dto.GrammarRequest) (*dto.FileResponse, error) {
	f, err := h.document(req.File)
	if err != nil {
		return nil, err
	}
	out, err := h.ai.CorrectGrammar(ctx, &aiflow.CorrectGrammarInput{Text: f.Content})
	if err != nil {
		return nil, mapError(err)
	}
	return h.applyDocument(ctx, f.Name, out.CorrectedText)
}

// RewriteDocument rewrites a document, or the first occurrence of the
// selected passage, and stores the result.
func (h *AIHandler) RewriteDocument(ctx context.Context, req *dto.RewriteRequest) (*dto.FileResponse, error) {
	f, err := h.document(req.File)
	if err != nil {
		return nil, err
	}
	selected := req.SelectedText
	if selected == "" {
		selected = f.Content
	} else if !strings.Contains(f.Content, selected) {
		return nil, dto.InvalidField("selected_text", "The selected text is not in the document.")
	}
	out, err := h.ai.RewriteDocument(ctx, &aiflow.RewriteDocumentInput{SelectedText: selected, Instructions: req.Instructions})
	if err != nil {
		return nil, mapError(err)
	}
	content := out.RewrittenText
	if req.SelectedText != "" {
		content = strings.Replace(f.Content, req.SelectedText, out.RewrittenText, 1)
	}
	return h.applyDocument(ctx, f.Name, content)
}

// Chat answers an instruction about a document with a reply and a suggested
// rewrite, diffed against the current content. Nothing is stored.
func (h *AIHandler) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	f, err := h.document(req.File)
	if err != nil {
		return nil, err
	}
	in := &aiflow.ChatWithDocumentInput{Document: f.Content, Instruction: req.Instruction}
	for _, m := range req.History {
		in.ChatHistory = append(in.ChatHistory, aiflow.ChatMessage{Role: m.Role, Content: m.Content})
	}
	out, err := h.ai.ChatWithDocument(ctx, in)
	if err != nil {
		return nil, mapError(err)
	}
	resp := &dto.ChatResponse{Reply: out.Reply, Suggestion: out.RewrittenDocument, Diff: dto.DiffResponse{Hunks: []dto.DiffHunk{}}}
	if out.RewrittenDocument != "" {
		resp.Diff = toDiffResponse(textdiff.DiffWithLimit(f.Content, out.RewrittenDocument, textdiff.MaxLines))
	}
	return resp, nil
}

// ManipulateData transforms a spreadsheet and stores the result.
func (h *AIHandler) ManipulateData(ctx context.Context, req *dto.ManipulateRequest) (*dto.SheetResponse, error) {
	if h.ai == nil {
		return nil, dto.AIUnavailable(errNoModel)
	}
	name, err := h.resolve(req.File)
	if err != nil {
		return nil, err
	}
	f, err := h.ws.Get(name)
	if err != nil {
		return nil, mapError(err)
	}
	t, err := h.ws.Sheet(name)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := h.ai.ManipulateData(ctx, &aiflow.ManipulateDataInput{
		SpreadsheetData: f.Content,
		SelectedRange:   t.Range(),
		Instruction:     req.Instruction,
	})
	if err != nil {
		return nil, mapError(err)
	}
	t, err = h.ws.ApplySpreadsheetContent(name, out.ManipulatedData)
	if errors.Is(err, workspace.ErrInvalidSpreadsheet) {
		return nil, dto.AIInvalidOutput(err)
	} else if err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "ai applied", "file", name, "rows", len(t.Rows))
	return toSheetResponse(name, t), nil
}

// CreateFormula generates a formula over a spreadsheet's columns.
func (h *AIHandler) CreateFormula(ctx context.Context, req *dto.FormulaRequest) (*dto.FormulaResponse, error) {
	if h.ai == nil {
		return nil, dto.AIUnavailable(errNoModel)
	}
	name, err := h.resolve(req.File)
	if err != nil {
		return nil, err
	}
	t, err := h.ws.Sheet(name)
	if err != nil {
		return nil, mapError(err)
	}
	out, err := h.ai.CreateFormula(ctx, &aiflow.CreateFormulaInput{Description: req.Description, ColumnNames: t.Columns})
	if err != nil {
		return nil, mapError(err)
	}
	return &dto.FormulaResponse{Formula: out.Formula}, nil
}

// resolve returns name, or the selected file when name is empty.
func (h *AIHandler) resolve(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	if name = h.ws.Selected(); name == "" {
		return "", mapError(workspace.ErrNoSelection)
	}
	return name, nil
}

// document returns the named document and checks a model is configured.
func (h *AIHandler) document(name string) (workspace.File, error) {
	if h.ai == nil {
		return workspace.File{}, dto.AIUnavailable(errNoModel)
	}
	name, err := h.resolve(name)
	if err != nil {
		return workspace.File{}, err
	}
	f, err := h.ws.Get(name)
	if err != nil {
		return workspace.File{}, mapError(err)
	}
	if f.Kind != workspace.Document {
		return workspace.File{}, mapError(fmt.Errorf("%w: %q", workspace.ErrNotDocument, name))
	}
	return f, nil
}

func (h *AIHandler) applyDocument(ctx context.Context, name, content string) (*dto.FileResponse, error) {
	f, err := h.ws.SetDocumentContent(name, content)
	if err != nil {
		return nil, mapError(err)
	}
	slog.InfoContext(ctx, "ai applied", "file", name, "bytes", len(content))
	return toFileResponse(h.ws, f)
}
