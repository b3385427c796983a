package dto

// HealthResponse is a response from a health check.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// UnlockResponse carries the session token.
type UnlockResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"` // RFC3339
}

// OkResponse acknowledges a mutation without a payload.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// FileInfo describes a file without its content.
type FileInfo struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "document" or "spreadsheet"
	Size int    `json:"size"`
}

// WorkspaceResponse is the file list and selection.
type WorkspaceResponse struct {
	Files    []FileInfo `json:"files"`
	Selected string     `json:"selected"`
	Dirty    bool       `json:"dirty"`
}

// TableResponse is the table view of a spreadsheet. Cells are JSON strings
// or numbers.
type TableResponse struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
	Range   string           `json:"range,omitempty"`
}

// FileResponse is a file with its content. Table is set for spreadsheets.
type FileResponse struct {
	Name    string         `json:"name"`
	Kind    string         `json:"kind"`
	Content string         `json:"content"`
	Table   *TableResponse `json:"table,omitempty"`
}

// SheetResponse is a spreadsheet after an edit.
type SheetResponse struct {
	Name  string        `json:"name"`
	Table TableResponse `json:"table"`
}

// RevisionResponse is one past save.
type RevisionResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
	Time    string `json:"time"` // RFC3339
}

// HistoryResponse lists past saves, newest first.
type HistoryResponse struct {
	Revisions []RevisionResponse `json:"revisions"`
}

// DiffLine is one line of a diff.
type DiffLine struct {
	Type    string `json:"type"` // "context", "added" or "removed"
	Text    string `json:"text"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
}

// DiffHunk is a run of changes with context.
type DiffHunk struct {
	Lines []DiffLine `json:"lines"`
}

// DiffResponse previews a suggestion against the current content.
type DiffResponse struct {
	Hunks   []DiffHunk `json:"hunks"`
	Added   int        `json:"added"`
	Removed int        `json:"removed"`
	Skipped bool       `json:"skipped,omitempty"`
}

// ChatResponse is the assistant reply and its suggestion. The suggestion is
// not applied.
type ChatResponse struct {
	Reply      string       `json:"reply"`
	Suggestion string       `json:"suggestion,omitempty"`
	Diff       DiffResponse `json:"diff"`
}

// FormulaResponse is a generated spreadsheet formula without a leading "=".
type FormulaResponse struct {
	Formula string `json:"formula"`
}
