package api

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

// writeJSON writes v as the JSON response body with the given status.
func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("err", err))
	}
}
