package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/mind-engage/quizvfs/internal/logging"
	"github.com/mind-engage/quizvfs/internal/quiz"
	"github.com/mind-engage/quizvfs/internal/vfs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels to status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, vfs.ErrNotFound), errors.Is(err, quiz.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vfs.ErrDuplicateName):
		status = http.StatusConflict
	case errors.Is(err, vfs.ErrInvalidName), errors.Is(err, quiz.ErrInvalid):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		logging.WithContext(r.Context()).Error("request failed", logging.Err(err))
	}
	http.Error(w, err.Error(), status)
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}

// pathParam returns the unescaped URL parameter; folder names may contain
// spaces and punctuation.
func pathParam(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
