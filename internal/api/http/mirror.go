package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizvfs/internal/storage"
)

// MountMirror serves the workspace's mirrored snapshot blob.
func MountMirror(r chi.Router, bs storage.BlobStore, key string) {
	// GET /mirror -> raw blob
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		rc, err := bs.Get(r.Context(), key)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	})

	// GET /mirror/url -> link a client can fetch the blob from directly
	r.Get("/url", func(w http.ResponseWriter, r *http.Request) {
		u, err := bs.SignedURL(r.Context(), key)
		if err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"key": key, "url": u})
	})
}
