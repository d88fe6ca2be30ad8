package vfs

// Location is the result of a lookup. Parent is nil when the node sits at the
// forest root; Node is nil when nothing matched.
type Location struct {
	Node   *Node
	Parent *Node
}

// Found reports whether the lookup matched.
func (l Location) Found() bool { return l.Node != nil }

// FindFile finds the file entry with the given entry id.
func FindFile(f Forest, entryID string) Location {
	if entryID == "" {
		return Location{}
	}
	return locationOf(chainTo(f, func(n *Node) bool {
		return IsFile(n) && n.EntryID == entryID
	}))
}

// FindFolder finds the first directory named name.
func FindFolder(f Forest, name string) Location {
	if name == "" {
		return Location{}
	}
	return locationOf(chainTo(f, func(n *Node) bool {
		return n.Kind == KindDirectory && n.Name == name
	}))
}

// FolderPath returns the names of the directories from the root down to and
// including the folder named name, or nil if there is no such folder.
func FolderPath(f Forest, name string) []string {
	if name == "" {
		return nil
	}
	chain := chainTo(f, func(n *Node) bool {
		return n.Kind == KindDirectory && n.Name == name
	})
	if chain == nil {
		return nil
	}
	names := make([]string, len(chain))
	for i, n := range chain {
		names[i] = n.Name
	}
	return names
}

// IsDescendant reports whether node lives somewhere below dir.
func IsDescendant(dir, node *Node) bool {
	if !IsDirectory(dir) || node == nil {
		return false
	}
	return chainTo(dir.Children, func(n *Node) bool { return n == node }) != nil
}

// chainTo returns the path from a root node down to the first match. Each
// level is scanned in full before descending, left to right, so a match
// closer to the root wins over one nested in an earlier sibling.
func chainTo(nodes []*Node, match func(*Node) bool) []*Node {
	for _, n := range nodes {
		if n != nil && match(n) {
			return []*Node{n}
		}
	}
	for _, n := range nodes {
		if !IsDirectory(n) {
			continue
		}
		if sub := chainTo(n.Children, match); sub != nil {
			return append([]*Node{n}, sub...)
		}
	}
	return nil
}

func locationOf(chain []*Node) Location {
	switch len(chain) {
	case 0:
		return Location{}
	case 1:
		return Location{Node: chain[0]}
	default:
		return Location{Node: chain[len(chain)-1], Parent: chain[len(chain)-2]}
	}
}
