package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	syncx "github.com/mind-engage/quizvfs/internal/sync"
	"github.com/mind-engage/quizvfs/internal/vfs"
	"github.com/mind-engage/quizvfs/internal/workspace"
)

// EventLister is the read side of syncx.EventRepo.
type EventLister interface {
	List(ctx context.Context, afterSeq int64, limit int) ([]syncx.Event, error)
}

type treeResponse struct {
	Workspace string     `json:"workspace"`
	Tree      vfs.Forest `json:"tree"`
}

type moveResponse struct {
	Moved    bool       `json:"moved"`
	Category string     `json:"category"`
	Reopen   []string   `json:"reopen"`
	Reason   string     `json:"reason,omitempty"`
	Tree     vfs.Forest `json:"tree"`
}

func tree(s *workspace.Session, f vfs.Forest) treeResponse {
	if f == nil {
		f = vfs.Forest{}
	}
	return treeResponse{Workspace: s.ID(), Tree: f}
}

func GetTreeHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, tree(s, s.Forest()))
	}
}

// GetSnapshotHandler returns the persisted form: root order plus keyed nodes.
func GetSnapshotHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := vfs.EncodeSnapshot(s.Snapshot())
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(b)
	}
}

func SyncHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := s.Sync(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tree(s, f))
	}
}

// MoveHandler applies a drop. A rejected move is not an HTTP error: the
// response says moved=false and why, with the unchanged tree.
func MoveHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			DraggedID string `json:"dragged_id"`
			TargetID  string `json:"target_id"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		res := s.Move(r.Context(), req.DraggedID, req.TargetID)
		out := moveResponse{
			Moved:    res.Moved(),
			Category: res.Category.String(),
			Reopen:   res.Reopen,
			Tree:     res.Forest,
		}
		if out.Reopen == nil {
			out.Reopen = []string{}
		}
		if res.Err != nil {
			out.Reason = res.Err.Error()
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func AddFolderHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name   string `json:"name"`
			Parent string `json:"parent"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		f, err := s.AddFolder(r.Context(), strings.TrimSpace(req.Name), req.Parent)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, tree(s, f))
	}
}

// UpdateFolderHandler renames and/or toggles a folder. A rename happens
// first, so toggle applies to the new name.
func UpdateFolderHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NewName *string `json:"new_name"`
			Toggle  bool    `json:"toggle"`
		}
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.NewName == nil && !req.Toggle {
			http.Error(w, "new_name or toggle required", http.StatusBadRequest)
			return
		}

		var newName string
		if req.NewName != nil {
			if newName = strings.TrimSpace(*req.NewName); newName == "" {
				http.Error(w, "new_name must not be empty", http.StatusBadRequest)
				return
			}
		}
		f, _, err := s.UpdateFolder(r.Context(), pathParam(r, "name"), newName, req.Toggle)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tree(s, f))
	}
}

func RemoveFolderHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := s.RemoveFolder(r.Context(), pathParam(r, "name"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tree(s, f))
	}
}

func RemoveFileHandler(s *workspace.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := s.RemoveFile(r.Context(), chi.URLParam(r, "entryID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, tree(s, f))
	}
}

func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after, err := strconv.ParseInt(r.URL.Query().Get("after"), 10, 64)
		if err != nil || after < 0 {
			after = 0
		}
		list, err := events.List(r.Context(), after, parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// MountVFS wires the tree routes. events may be nil, in which case the event
// feed is not mounted.
func MountVFS(r chi.Router, s *workspace.Session, events EventLister) {
	r.Get("/", GetTreeHandler(s))
	r.Get("/snapshot", GetSnapshotHandler(s))
	r.Post("/sync", SyncHandler(s))
	r.Post("/move", MoveHandler(s))
	r.Post("/folders", AddFolderHandler(s))
	r.Patch("/folders/{name}", UpdateFolderHandler(s))
	r.Delete("/folders/{name}", RemoveFolderHandler(s))
	r.Delete("/files/{entryID}", RemoveFileHandler(s))
	if events != nil {
		r.Get("/events", ListEventsHandler(events))
	}
}
