package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"texcat/internal/apperr"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps a service error to its HTTP status. Anything outside
// the taxonomy becomes a generic 500; the real cause is logged
// server-side only.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error) {
	if e, ok := apperr.As(err); ok {
		if e.Kind == apperr.KindInternal {
			lg.Errorw("internal error", "error", e.Err)
			respondJSON(w, e.Status(), map[string]string{"detail": e.Message})
			return
		}
		respondJSON(w, e.Status(), map[string]string{"detail": e.Message})
		return
	}
	lg.Errorw("unhandled error", "error", err)
	respondJSON(w, http.StatusInternalServerError,
		map[string]string{"detail": "an unexpected error occurred, please try again later"})
}
