package workspace

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/mind-engage/quizvfs/internal/vfs"
)

// ErrNoTree is returned by LoadTree when the workspace has never been saved.
var ErrNoTree = errors.New("no tree for workspace")

type TreeStore interface {
	LoadTree(ctx context.Context, workspaceID string) (vfs.Snapshot, error)
	SaveTree(ctx context.Context, workspaceID string, s vfs.Snapshot) error
}

type memoryTrees struct {
	mu    sync.RWMutex
	trees map[string][]byte
}

// NewInMemoryTreeStore keeps encoded snapshots in memory.
func NewInMemoryTreeStore() TreeStore {
	return &memoryTrees{trees: map[string][]byte{}}
}

func (m *memoryTrees) LoadTree(_ context.Context, workspaceID string) (vfs.Snapshot, error) {
	m.mu.RLock()
	b, ok := m.trees[workspaceID]
	m.mu.RUnlock()
	if !ok {
		return vfs.Snapshot{}, ErrNoTree
	}
	return vfs.DecodeSnapshot(b)
}

func (m *memoryTrees) SaveTree(_ context.Context, workspaceID string, s vfs.Snapshot) error {
	b, err := vfs.EncodeSnapshot(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.trees[workspaceID] = b
	m.mu.Unlock()
	return nil
}

type SQLTreeStore struct{ db *sql.DB }

func NewSQLTreeStore(db *sql.DB) *SQLTreeStore { return &SQLTreeStore{db: db} }

func (s *SQLTreeStore) LoadTree(ctx context.Context, workspaceID string) (vfs.Snapshot, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT tree_json FROM vfs_trees WHERE workspace_id=$1`, workspaceID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return vfs.Snapshot{}, ErrNoTree
	}
	if err != nil {
		return vfs.Snapshot{}, err
	}
	return vfs.DecodeSnapshot([]byte(raw))
}

func (s *SQLTreeStore) SaveTree(ctx context.Context, workspaceID string, snap vfs.Snapshot) error {
	b, err := vfs.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO vfs_trees (workspace_id, tree_json, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (workspace_id) DO UPDATE SET tree_json=EXCLUDED.tree_json, updated_at=EXCLUDED.updated_at`,
		workspaceID, string(b), time.Now().Unix())
	return err
}
