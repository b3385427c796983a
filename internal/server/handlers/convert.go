// Converts workspace types to API responses.

package handlers

import (
	"time"

	"github.com/maruel/workpad/internal/csvtable"
	"github.com/maruel/workpad/internal/server/dto"
	"github.com/maruel/workpad/internal/storage/blob"
	"github.com/maruel/workpad/internal/textdiff"
	"github.com/maruel/workpad/internal/workspace"
)

func toWorkspaceResponse(ws *workspace.Store) *dto.WorkspaceResponse {
	infos := ws.List()
	files := make([]dto.FileInfo, len(infos))
	for i, f := range infos {
		files[i] = dto.FileInfo{Name: f.Name, Kind: f.Kind.String(), Size: f.Size}
	}
	return &dto.WorkspaceResponse{Files: files, Selected: ws.Selected(), Dirty: ws.Dirty()}
}

// toFileResponse converts f. Spreadsheets also get their table view.
func toFileResponse(ws *workspace.Store, f workspace.File) (*dto.FileResponse, error) {
	resp := &dto.FileResponse{Name: f.Name, Kind: f.Kind.String(), Content: f.Content}
	if f.Kind == workspace.Spreadsheet {
		t, err := ws.Sheet(f.Name)
		if err != nil {
			return nil, mapError(err)
		}
		tr := toTableResponse(t)
		resp.Table = &tr
	}
	return resp, nil
}

func toTableResponse(t *csvtable.Table) dto.TableResponse {
	rows := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make(map[string]any, len(r))
		for k, v := range r {
			if v.IsNumber() {
				row[k] = v.Float()
			} else {
				row[k] = v.Text()
			}
		}
		rows[i] = row
	}
	cols := t.Columns
	if cols == nil {
		cols = []string{}
	}
	return dto.TableResponse{Columns: cols, Rows: rows, Range: t.Range()}
}

func toSheetResponse(name string, t *csvtable.Table) *dto.SheetResponse {
	return &dto.SheetResponse{Name: name, Table: toTableResponse(t)}
}

// toValue converts a decoded JSON cell to a table value.
func toValue(v any) csvtable.Value {
	switch v := v.(type) {
	case float64:
		return csvtable.Number(v)
	case string:
		return csvtable.String(v)
	default:
		return csvtable.String("")
	}
}

func toRevisions(revs []blob.Revision) []dto.RevisionResponse {
	out := make([]dto.RevisionResponse, len(revs))
	for i, r := range revs {
		out[i] = dto.RevisionResponse{ID: r.ID, Message: r.Message, Time: r.Time.UTC().Format(time.RFC3339)}
	}
	return out
}

func toDiffResponse(hunks []textdiff.Hunk, stats textdiff.Stats, skipped bool) dto.DiffResponse {
	out := dto.DiffResponse{Hunks: make([]dto.DiffHunk, len(hunks)), Added: stats.Added, Removed: stats.Removed, Skipped: skipped}
	for i, h := range hunks {
		lines := make([]dto.DiffLine, len(h.Lines))
		for j, l := range h.Lines {
			lines[j] = dto.DiffLine{Type: l.Type, Text: l.Text, OldLine: l.OldLine, NewLine: l.NewLine}
		}
		out.Hunks[i] = dto.DiffHunk{Lines: lines}
	}
	return out
}
