// Provides helper functions for writing error responses.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/maruel/workpad/internal/server/dto"
)

// writeErrorResponse writes err as a JSON error response. Use this in raw
// http.HandlerFunc handlers that don't use server.Wrap.
func writeErrorResponse(w http.ResponseWriter, err error) {
	status, resp := dto.NewErrorResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode error response", "err", err)
	}
}
