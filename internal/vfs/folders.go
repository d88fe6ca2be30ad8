package vfs

import "fmt"

// AddFolder creates an empty folder at the end of parentName's children.
// An empty parentName or RootSentinel means the forest root.
func AddFolder(f Forest, name, parentName string) (Forest, error) {
	if err := validFolderName(f, name); err != nil {
		return f, err
	}
	t := &tree{roots: f.Clone()}

	var parent *Node
	if parentName != "" && parentName != RootSentinel {
		loc := FindFolder(t.roots, parentName)
		if !loc.Found() {
			return f, fmt.Errorf("parent folder %q: %w", parentName, ErrNotFound)
		}
		parent = loc.Node
	}
	if t.hasFolder(parent, name, nil) {
		return f, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	t.appendTo(parent, NewDirectory(name))
	return t.roots, nil
}

// RenameFolder renames the folder called oldName.
func RenameFolder(f Forest, oldName, newName string) (Forest, error) {
	if err := validFolderName(f, newName); err != nil {
		return f, err
	}
	t := &tree{roots: f.Clone()}
	loc := FindFolder(t.roots, oldName)
	if !loc.Found() {
		return f, fmt.Errorf("folder %q: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return t.roots, nil
	}
	if t.hasFolder(loc.Parent, newName, loc.Node) {
		return f, fmt.Errorf("%w: %q", ErrDuplicateName, newName)
	}
	loc.Node.Name = newName
	return t.roots, nil
}

// ToggleFolder flips the open state of the folder and returns the new state.
func ToggleFolder(f Forest, name string) (Forest, bool, error) {
	t := &tree{roots: f.Clone()}
	loc := FindFolder(t.roots, name)
	if !loc.Found() {
		return f, false, fmt.Errorf("folder %q: %w", name, ErrNotFound)
	}
	loc.Node.IsOpen = !loc.Node.IsOpen
	return t.roots, loc.Node.IsOpen, nil
}

// UpdateFolder renames the folder called name to newName when newName is
// non-empty and flips its open state when toggle is set. Both edits apply to
// the same node. It returns the node's resulting open state; on error f is
// returned unchanged.
func UpdateFolder(f Forest, name, newName string, toggle bool) (Forest, bool, error) {
	if newName != "" && newName != name {
		if err := validFolderName(f, newName); err != nil {
			return f, false, err
		}
	}
	t := &tree{roots: f.Clone()}
	loc := FindFolder(t.roots, name)
	if !loc.Found() {
		return f, false, fmt.Errorf("folder %q: %w", name, ErrNotFound)
	}
	if newName != "" && newName != name {
		if t.hasFolder(loc.Parent, newName, loc.Node) {
			return f, false, fmt.Errorf("%w: %q", ErrDuplicateName, newName)
		}
		loc.Node.Name = newName
	}
	if toggle {
		loc.Node.IsOpen = !loc.Node.IsOpen
	}
	return t.roots, loc.Node.IsOpen, nil
}

// RemoveFolder deletes the folder. Its children take its place in the
// containing folder, in their current order.
func RemoveFolder(f Forest, name string) (Forest, error) {
	t := &tree{roots: f.Clone()}
	loc := FindFolder(t.roots, name)
	if !loc.Found() {
		return f, fmt.Errorf("folder %q: %w", name, ErrNotFound)
	}
	at := t.detach(loc.Parent, loc.Node)
	for _, c := range loc.Node.Children {
		if c == nil {
			continue
		}
		if IsDirectory(c) && t.hasFolder(loc.Parent, c.Name, nil) {
			c.Name = uniqueName(t, loc.Parent, c.Name)
		}
		t.insert(loc.Parent, at, c)
		at++
	}
	return t.roots, nil
}

// RemoveFile deletes the file entry for entryID.
func RemoveFile(f Forest, entryID string) (Forest, error) {
	t := &tree{roots: f.Clone()}
	loc := FindFile(t.roots, entryID)
	if !loc.Found() {
		return f, fmt.Errorf("file %q: %w", entryID, ErrNotFound)
	}
	t.detach(loc.Parent, loc.Node)
	return t.roots, nil
}

// ApplyReopen marks the named folders open.
func ApplyReopen(f Forest, names []string) Forest {
	if len(names) == 0 {
		return f
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := f.Clone()
	Walk(out, func(n, _ *Node) bool {
		if _, ok := want[n.Name]; ok && IsDirectory(n) {
			n.IsOpen = true
		}
		return true
	})
	return out
}

// validFolderName keeps folder names disjoint from entry ids, since both
// share the key space of the serialized form.
func validFolderName(f Forest, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name == RootSentinel:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidName, name)
	case IsEntryID(name):
		return fmt.Errorf("%w: %q looks like a quiz id", ErrInvalidName, name)
	case FindFile(f, name).Found():
		return fmt.Errorf("%w: %q is a quiz id in this tree", ErrInvalidName, name)
	}
	return nil
}

func uniqueName(t *tree, parent *Node, base string) string {
	for i := 2; ; i++ {
		name := fmt.Sprintf("%s (%d)", base, i)
		if !t.hasFolder(parent, name, nil) {
			return name
		}
	}
}
