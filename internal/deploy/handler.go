// ABOUTME: HTTP endpoint exposing the latest deployment as JSON
// ABOUTME: Any failure collapses to 503 so the dashboard can show a placeholder

package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Source supplies the latest deployment. *Client implements it.
type Source interface {
	Latest(ctx context.Context) (*Deployment, error)
}

// Handler serves GET /api/integrations/vercel.
func Handler(src Source, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "vercel")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")

		deployment, err := src.Latest(r.Context())
		if err != nil {
			if errors.Is(err, ErrNotConfigured) {
				logger.Debug("deployment lookup skipped", "error", err)
			} else {
				logger.Warn("deployment lookup failed", "error", err)
			}
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "Deployment data unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deployment": deployment})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
