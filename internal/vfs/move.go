package vfs

import (
	"fmt"

	"github.com/mind-engage/quizvfs/internal/logging"
)

// Category is the (dragged kind, target kind) pair that selects a move handler.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryFileToFolder
	CategoryFileToFile
	CategoryFolderToFolder
	CategoryFolderToFile
)

func (c Category) String() string {
	switch c {
	case CategoryFileToFolder:
		return "file_to_folder"
	case CategoryFileToFile:
		return "file_to_file"
	case CategoryFolderToFolder:
		return "folder_to_folder"
	case CategoryFolderToFile:
		return "folder_to_file"
	default:
		return "unknown"
	}
}

func categoryOf(draggedFolder, targetFolder bool) Category {
	switch {
	case !draggedFolder && targetFolder:
		return CategoryFileToFolder
	case !draggedFolder && !targetFolder:
		return CategoryFileToFile
	case draggedFolder && targetFolder:
		return CategoryFolderToFolder
	default:
		return CategoryFolderToFile
	}
}

// MoveResult is the outcome of Move. When Err is non-nil nothing moved and
// Forest is an unchanged copy of the input.
type MoveResult struct {
	Forest   Forest
	Category Category
	// Reopen names the folders the UI should show expanded after the move.
	Reopen []string
	Err    error
}

// Moved reports whether the forest changed.
func (r MoveResult) Moved() bool { return r.Err == nil }

// ref is a resolved move endpoint.
type ref struct {
	loc    Location
	folder bool
	root   bool
}

func (t *tree) resolve(key string) (ref, bool) {
	if key == RootSentinel {
		return ref{folder: true, root: true}, true
	}
	if loc := FindFile(t.roots, key); loc.Found() {
		return ref{loc: loc}, true
	}
	if loc := FindFolder(t.roots, key); loc.Found() {
		return ref{loc: loc, folder: true}, true
	}
	return ref{folder: !IsEntryID(key)}, false
}

// Move relocates the node identified by draggedID relative to targetID.
// Files are addressed by entry id, folders by name, the root by RootSentinel.
//
//	file   -> folder  append to the folder (or the root)
//	file   -> file    same container: take the target's index; otherwise
//	                  append to the target's container
//	folder -> folder  append to the folder (or the root)
//	folder -> file    swap positions, root level only
func Move(f Forest, draggedID, targetID string) MoveResult {
	t := &tree{roots: f.Clone()}
	open := openFolders(t.roots)

	cat, err := t.move(draggedID, targetID)
	res := MoveResult{Forest: t.roots, Category: cat, Err: err}
	if err != nil {
		logging.Debug("vfs: move ignored",
			logging.String("dragged", draggedID),
			logging.String("target", targetID),
			logging.String("category", cat.String()),
			logging.Err(err))
		return res
	}

	res.Reopen = dedupe(append(open, t.reopenTarget(cat, draggedID, targetID)...))
	return res
}

func (t *tree) move(draggedID, targetID string) (Category, error) {
	if draggedID == targetID {
		return CategoryUnknown, ErrSelfMove
	}
	if draggedID == "" || draggedID == RootSentinel {
		return CategoryUnknown, ErrDraggedNotFound
	}
	dragged, ok := t.resolve(draggedID)
	target, tok := t.resolve(targetID)
	cat := categoryOf(dragged.folder, target.folder)
	if !ok {
		return cat, ErrDraggedNotFound
	}
	if !tok {
		return cat, ErrTargetNotFound
	}

	switch cat {
	case CategoryFileToFolder:
		return cat, t.moveFileToFolder(dragged, target)
	case CategoryFileToFile:
		return cat, t.moveFileToFile(dragged, target)
	case CategoryFolderToFolder:
		return cat, t.moveFolderToFolder(dragged, target)
	default:
		return cat, t.moveFolderToFile(dragged, target)
	}
}

func (t *tree) moveFileToFolder(dragged, target ref) error {
	var dest *Node
	if !target.root {
		dest = target.loc.Node
	}
	if dragged.loc.Parent == dest {
		return ErrNoChange
	}
	if dest == nil && t.rootKeyTaken(dragged.loc.Node) {
		return fmt.Errorf("%w: %w %q", ErrInvalidMove, ErrDuplicateName, dragged.loc.Node.Key())
	}
	t.detach(dragged.loc.Parent, dragged.loc.Node)
	t.appendTo(dest, dragged.loc.Node)
	return nil
}

func (t *tree) moveFileToFile(dragged, target ref) error {
	if dragged.loc.Parent == target.loc.Parent {
		parent := dragged.loc.Parent
		to := indexOf(t.container(parent), target.loc.Node)
		t.detach(parent, dragged.loc.Node)
		t.insert(parent, to, dragged.loc.Node)
		return nil
	}
	if target.loc.Parent == nil && t.rootKeyTaken(dragged.loc.Node) {
		return fmt.Errorf("%w: %w %q", ErrInvalidMove, ErrDuplicateName, dragged.loc.Node.Key())
	}
	t.detach(dragged.loc.Parent, dragged.loc.Node)
	t.appendTo(target.loc.Parent, dragged.loc.Node)
	return nil
}

func (t *tree) moveFolderToFolder(dragged, target ref) error {
	node, from := dragged.loc.Node, dragged.loc.Parent

	var dest *Node
	if !target.root {
		dest = target.loc.Node
		switch {
		case dest == node:
			return ErrSelfMove
		case IsDescendant(node, dest):
			return ErrCycle
		case from != nil && from.Name == dest.Name:
			return ErrNoChange
		}
	} else if from == nil {
		return ErrNoChange
	}
	if t.hasFolder(dest, node.Name, node) || (dest == nil && t.rootKeyTaken(node)) {
		return fmt.Errorf("%w: %w %q", ErrInvalidMove, ErrDuplicateName, node.Name)
	}

	t.detach(from, node)
	t.appendTo(dest, node)
	return nil
}

// moveFolderToFile swaps the two root entries. Anywhere else the pairing has
// no meaningful position and is refused.
func (t *tree) moveFolderToFile(dragged, target ref) error {
	if dragged.loc.Parent != nil || target.loc.Parent != nil {
		return ErrUnsupportedMove
	}
	i := indexOf(t.roots, dragged.loc.Node)
	j := indexOf(t.roots, target.loc.Node)
	t.roots[i], t.roots[j] = t.roots[j], t.roots[i]
	return nil
}

// reopenTarget returns the folder chain that now contains the dragged node.
func (t *tree) reopenTarget(cat Category, draggedID, targetID string) []string {
	switch cat {
	case CategoryFileToFolder, CategoryFolderToFolder:
		if targetID == RootSentinel {
			return nil
		}
		return FolderPath(t.roots, targetID)
	case CategoryFileToFile:
		if loc := FindFile(t.roots, draggedID); loc.Parent != nil {
			return FolderPath(t.roots, loc.Parent.Name)
		}
	}
	return nil
}

func openFolders(f Forest) []string {
	var names []string
	Walk(f, func(n, _ *Node) bool {
		if IsDirectory(n) && n.IsOpen {
			names = append(names, n.Name)
		}
		return true
	})
	return names
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
