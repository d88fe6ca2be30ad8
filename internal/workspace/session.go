// Package workspace owns the live sidebar tree of one workspace and keeps it
// in step with the quiz store, the tree store, the blob mirror and the event
// log.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/mind-engage/quizvfs/internal/logging"
	"github.com/mind-engage/quizvfs/internal/metrics"
	"github.com/mind-engage/quizvfs/internal/quiz"
	"github.com/mind-engage/quizvfs/internal/storage"
	syncx "github.com/mind-engage/quizvfs/internal/sync"
	"github.com/mind-engage/quizvfs/internal/vfs"
)

// EventLog is the append side of syncx.EventRepo.
type EventLog interface {
	Append(ctx context.Context, e syncx.Event) error
}

// Deps are the collaborators of a Session. Mirror and Events are optional.
type Deps struct {
	Quizzes quiz.Store
	Trees   TreeStore
	Mirror  storage.BlobStore
	Events  EventLog
}

type Session struct {
	id   string
	deps Deps

	mu     sync.Mutex
	forest vfs.Forest
}

func NewSession(id string, deps Deps) *Session {
	if deps.Trees == nil {
		deps.Trees = NewInMemoryTreeStore()
	}
	return &Session{id: id, deps: deps, forest: vfs.Forest{}}
}

func (s *Session) ID() string { return s.id }

// MirrorKey is the blob key the session mirrors its snapshot to.
func (s *Session) MirrorKey() string { return "vfs/" + s.id + ".json" }

// Load replaces the in-memory tree with the stored one. When the tree store
// has nothing for this workspace the mirror is tried; with neither, the tree
// starts empty.
func (s *Session) Load(ctx context.Context) error {
	snap, err := s.deps.Trees.LoadTree(ctx, s.id)
	switch {
	case errors.Is(err, ErrNoTree):
		snap, err = s.loadMirror(ctx)
		if err != nil {
			return err
		}
	case err != nil:
		return fmt.Errorf("load tree %s: %w", s.id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.forest = snap.Forest()
	metrics.SetTreeNodes(s.id, vfs.CountNodes(s.forest))
	logging.WithContext(ctx).Info("workspace loaded",
		logging.String("workspace", s.id),
		logging.Int("nodes", vfs.CountNodes(s.forest)))
	return nil
}

func (s *Session) loadMirror(ctx context.Context) (vfs.Snapshot, error) {
	if s.deps.Mirror == nil {
		return vfs.Snapshot{}, nil
	}
	rc, err := s.deps.Mirror.Get(ctx, s.MirrorKey())
	if errors.Is(err, storage.ErrNotFound) {
		return vfs.Snapshot{}, nil
	}
	if err != nil {
		return vfs.Snapshot{}, fmt.Errorf("read mirror %s: %w", s.MirrorKey(), err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return vfs.Snapshot{}, fmt.Errorf("read mirror %s: %w", s.MirrorKey(), err)
	}
	snap, err := vfs.DecodeSnapshot(b)
	if err != nil {
		return vfs.Snapshot{}, fmt.Errorf("decode mirror %s: %w", s.MirrorKey(), err)
	}
	logging.WithContext(ctx).Info("workspace restored from mirror", logging.String("workspace", s.id))
	return snap, nil
}

// Sync reconciles the tree against the quiz store.
func (s *Session) Sync(ctx context.Context) (vfs.Forest, error) {
	start := time.Now()
	recs, err := quiz.Records(ctx, s.deps.Quizzes)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := len(vfs.EntryIDs(s.forest))
	next := vfs.Reconcile(recs, s.forest)
	took := time.Since(start)
	metrics.RecordReconcile(took)
	if sameTree(s.forest, next) {
		return s.forest.Clone(), nil
	}
	logging.WithContext(ctx).Debug("tree reconciled",
		logging.String("workspace", s.id),
		logging.Int("quizzes", len(recs)),
		logging.Duration("took", took))
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeReconciled, s.id, map[string]any{
		"quizzes": len(recs),
		"before":  before,
		"after":   len(vfs.EntryIDs(s.forest)),
	})
	return s.forest.Clone(), nil
}

// Move applies a drag-and-drop. Rejected moves leave the tree untouched and
// come back with Err set; they are not persisted.
func (s *Session) Move(ctx context.Context, draggedID, targetID string) vfs.MoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := vfs.Move(s.forest, draggedID, targetID)
	metrics.RecordMove(res.Category.String(), res.Moved())
	if !res.Moved() {
		res.Forest = s.forest.Clone()
		return res
	}
	s.commit(ctx, vfs.ApplyReopen(res.Forest, res.Reopen))
	res.Forest = s.forest.Clone()
	logging.WithContext(ctx).Debug("node moved",
		logging.String("dragged", draggedID),
		logging.String("target", targetID),
		logging.Strings("reopen", res.Reopen))
	s.event(ctx, syncx.TypeMoved, draggedID, map[string]any{
		"target":   targetID,
		"category": res.Category.String(),
	})
	return res
}

func (s *Session) AddFolder(ctx context.Context, name, parent string) (vfs.Forest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := vfs.AddFolder(s.forest, name, parent)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeFolderAdded, name, map[string]any{"parent": parent})
	return s.forest.Clone(), nil
}

func (s *Session) RenameFolder(ctx context.Context, oldName, newName string) (vfs.Forest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := vfs.RenameFolder(s.forest, oldName, newName)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeFolderRenamed, oldName, map[string]any{"new_name": newName})
	return s.forest.Clone(), nil
}

func (s *Session) ToggleFolder(ctx context.Context, name string) (vfs.Forest, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, open, err := vfs.ToggleFolder(s.forest, name)
	if err != nil {
		return nil, false, err
	}
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeFolderToggled, name, map[string]any{"open": open})
	return s.forest.Clone(), open, nil
}

// UpdateFolder renames and/or toggles one folder in a single commit.
func (s *Session) UpdateFolder(ctx context.Context, name, newName string, toggle bool) (vfs.Forest, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, open, err := vfs.UpdateFolder(s.forest, name, newName, toggle)
	if err != nil {
		return nil, false, err
	}
	s.commit(ctx, next)
	if newName != "" && newName != name {
		s.event(ctx, syncx.TypeFolderRenamed, name, map[string]any{"new_name": newName})
	}
	if toggle {
		s.event(ctx, syncx.TypeFolderToggled, name, map[string]any{"open": open})
	}
	return s.forest.Clone(), open, nil
}

func (s *Session) RemoveFolder(ctx context.Context, name string) (vfs.Forest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := vfs.RemoveFolder(s.forest, name)
	if err != nil {
		return nil, err
	}
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeFolderRemoved, name, nil)
	return s.forest.Clone(), nil
}

// RemoveFile drops the file from the tree and deletes its quiz, so the next
// Sync does not bring it back.
func (s *Session) RemoveFile(ctx context.Context, entryID string) (vfs.Forest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := vfs.RemoveFile(s.forest, entryID)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Quizzes.DeleteQuiz(ctx, entryID); err != nil && !errors.Is(err, quiz.ErrNotFound) {
		return nil, fmt.Errorf("delete quiz %s: %w", entryID, err)
	}
	s.commit(ctx, next)
	s.event(ctx, syncx.TypeFileRemoved, entryID, nil)
	return s.forest.Clone(), nil
}

// Forest returns a copy of the current tree.
func (s *Session) Forest() vfs.Forest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forest.Clone()
}

func (s *Session) Snapshot() vfs.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return vfs.NewSnapshot(s.forest)
}

// commit swaps next in and persists it. Caller holds mu.
func (s *Session) commit(ctx context.Context, next vfs.Forest) {
	s.forest = next
	metrics.SetTreeNodes(s.id, vfs.CountNodes(next))
	s.persist(ctx)
}

// persist writes the tree to the tree store and the mirror. Failures are
// logged and counted; the in-memory tree stays authoritative.
func (s *Session) persist(ctx context.Context) {
	log := logging.WithContext(ctx)
	snap := vfs.NewSnapshot(s.forest)

	if err := s.deps.Trees.SaveTree(ctx, s.id, snap); err != nil {
		metrics.RecordPersistFailure("store")
		log.Warn("tree store write failed", logging.String("workspace", s.id), logging.Err(err))
	}

	if s.deps.Mirror == nil {
		return
	}
	b, err := vfs.EncodeSnapshot(snap)
	if err == nil {
		_, err = s.deps.Mirror.Put(ctx, s.MirrorKey(), bytes.NewReader(b))
	}
	if err != nil {
		metrics.RecordPersistFailure("mirror")
		log.Warn("tree mirror write failed", logging.String("key", s.MirrorKey()), logging.Err(err))
	}
}

func (s *Session) event(ctx context.Context, typ, key string, data map[string]any) {
	if s.deps.Events == nil {
		return
	}
	e := syncx.Event{SiteID: s.id, Type: typ, Key: key}
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			logging.WithContext(ctx).Warn("event encode failed", logging.String("type", typ), logging.Err(err))
			return
		}
		e.DataJSON = string(b)
	}
	if err := s.deps.Events.Append(ctx, e); err != nil {
		logging.WithContext(ctx).Warn("event append failed", logging.String("type", typ), logging.Err(err))
	}
}

// sameTree compares the serialized forms, which carry everything a commit
// would persist.
func sameTree(a, b vfs.Forest) bool {
	x, err := vfs.EncodeSnapshot(vfs.NewSnapshot(a))
	if err != nil {
		return false
	}
	y, err := vfs.EncodeSnapshot(vfs.NewSnapshot(b))
	if err != nil {
		return false
	}
	return bytes.Equal(x, y)
}
