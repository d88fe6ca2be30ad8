package vfs

// tree is a working copy that the mutating operations splice in place.
// A nil parent stands for the forest root.
type tree struct {
	roots Forest
}

func (t *tree) container(parent *Node) []*Node {
	if parent == nil {
		return t.roots
	}
	return parent.Children
}

func (t *tree) setContainer(parent *Node, nodes []*Node) {
	if parent == nil {
		t.roots = nodes
		return
	}
	parent.Children = nodes
}

func indexOf(nodes []*Node, n *Node) int {
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}

// detach splices n out of parent's container and returns its former index.
func (t *tree) detach(parent, n *Node) int {
	nodes := t.container(parent)
	i := indexOf(nodes, n)
	if i < 0 {
		return -1
	}
	out := make([]*Node, 0, len(nodes)-1)
	out = append(out, nodes[:i]...)
	out = append(out, nodes[i+1:]...)
	t.setContainer(parent, out)
	return i
}

// insert places n at index i of parent's container, clamping to the end.
func (t *tree) insert(parent *Node, i int, n *Node) {
	nodes := t.container(parent)
	if i < 0 || i > len(nodes) {
		i = len(nodes)
	}
	out := make([]*Node, 0, len(nodes)+1)
	out = append(out, nodes[:i]...)
	out = append(out, n)
	out = append(out, nodes[i:]...)
	t.setContainer(parent, out)
}

func (t *tree) appendTo(parent, n *Node) {
	t.insert(parent, -1, n)
}

// hasFolder reports whether parent's container already holds a directory
// named name, other than except.
func (t *tree) hasFolder(parent *Node, name string, except *Node) bool {
	for _, c := range t.container(parent) {
		if c != except && IsDirectory(c) && c.Name == name {
			return true
		}
	}
	return false
}

// rootKeyTaken reports whether a root node other than n already has n's key.
// Root keys must stay unique for the serialized form to round trip.
func (t *tree) rootKeyTaken(n *Node) bool {
	k := n.Key()
	for _, c := range t.roots {
		if c != nil && c != n && c.Key() == k {
			return true
		}
	}
	return false
}
