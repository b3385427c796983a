// Package server implements the HTTP server and routing logic.
package server

import (
	"net/http"

	"github.com/maruel/workpad/internal/metrics"
	"github.com/maruel/workpad/internal/server/handlers"
	"github.com/maruel/workpad/internal/server/ratelimit"
)

// NewRouter creates and configures the HTTP router.
//
// Everything under /api except health and unlock requires the bearer token
// returned by unlock. /metrics is served unauthenticated for the local
// scraper.
func NewRouter(svc *handlers.Services, cfg *handlers.Config, limiters *ratelimit.Limiters) http.Handler {
	mux := &http.ServeMux{}
	hh := handlers.NewHealthHandler(cfg.Version)
	authh := handlers.NewAuthHandler(cfg)
	wh := handlers.NewWorkspaceHandler(svc)
	fh := handlers.NewFileHandler(svc)
	sh := handlers.NewSheetHandler(svc)
	aih := handlers.NewAIHandler(svc)

	// Unauthenticated
	mux.Handle("GET /api/health", Wrap(hh.Health, cfg, limiters))
	mux.Handle("POST /api/auth/unlock", Wrap(authh.Unlock, cfg, limiters))

	// Workspace
	mux.Handle("GET /api/workspace", WrapAuth(wh.GetWorkspace, cfg, limiters))
	mux.Handle("POST /api/workspace/save", WrapAuth(wh.Save, cfg, limiters))
	mux.Handle("POST /api/workspace/revert", WrapAuth(wh.Revert, cfg, limiters))
	mux.Handle("GET /api/workspace/history", WrapAuth(wh.History, cfg, limiters))
	mux.Handle("POST /api/workspace/history/{rev}/restore", WrapAuth(wh.Restore, cfg, limiters))

	// Files
	mux.Handle("POST /api/files", WrapAuth(fh.CreateFile, cfg, limiters))
	mux.Handle("GET /api/files/{name}", WrapAuth(fh.GetFile, cfg, limiters))
	mux.Handle("PUT /api/files/{name}", WrapAuth(fh.UpdateFile, cfg, limiters))
	mux.Handle("DELETE /api/files/{name}", WrapAuth(fh.DeleteFile, cfg, limiters))
	mux.Handle("POST /api/files/{name}/rename", WrapAuth(fh.RenameFile, cfg, limiters))
	mux.Handle("POST /api/files/{name}/select", WrapAuth(fh.SelectFile, cfg, limiters))
	mux.Handle("GET /api/files/{name}/export", WrapAuthRaw(fh.ExportFile, cfg, limiters))

	// Spreadsheets
	mux.Handle("POST /api/sheets/{name}/cells", WrapAuth(sh.SetCell, cfg, limiters))
	mux.Handle("POST /api/sheets/{name}/columns", WrapAuth(sh.AddColumn, cfg, limiters))
	mux.Handle("POST /api/sheets/{name}/columns/rename", WrapAuth(sh.RenameColumn, cfg, limiters))
	mux.Handle("POST /api/sheets/{name}/rows", WrapAuth(sh.AddRow, cfg, limiters))

	// AI flows
	mux.Handle("POST /api/ai/grammar", WrapAuth(aih.CorrectGrammar, cfg, limiters))
	mux.Handle("POST /api/ai/rewrite", WrapAuth(aih.RewriteDocument, cfg, limiters))
	mux.Handle("POST /api/ai/chat", WrapAuth(aih.Chat, cfg, limiters))
	mux.Handle("POST /api/ai/manipulate", WrapAuth(aih.ManipulateData, cfg, limiters))
	mux.Handle("POST /api/ai/formula", WrapAuth(aih.CreateFormula, cfg, limiters))

	mux.Handle("GET /metrics", metrics.Handler())

	return metrics.Middleware(mux)
}
