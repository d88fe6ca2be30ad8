package vfs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var (
	t0 = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t1 = time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
)

func file(id, name string) *Node {
	return NewFile(name, id, nil, t0, t0)
}

func dir(name string, children ...*Node) *Node {
	d := NewDirectory(name)
	d.Children = append(d.Children, children...)
	return d
}

func openDir(name string, children ...*Node) *Node {
	d := dir(name, children...)
	d.IsOpen = true
	return d
}

func rec(id, name string, topics ...string) QuizRecord {
	return QuizRecord{ID: id, Name: name, Topics: topics, CreatedAt: t0, UpdatedAt: t0}
}

// shape renders a forest as nested keys, e.g. ["Math[1,2]", "3"].
func shape(f Forest) []string {
	out := make([]string, 0, len(f))
	for _, n := range f {
		if n == nil {
			out = append(out, "<nil>")
			continue
		}
		if IsDirectory(n) {
			s := n.Name + "["
			for i, c := range shape(n.Children) {
				if i > 0 {
					s += ","
				}
				s += c
			}
			out = append(out, s+"]")
			continue
		}
		out = append(out, n.EntryID)
	}
	return out
}

// requireSimpleForest fails if a node is reachable twice (shared or cyclic)
// or if an entry id repeats.
func requireSimpleForest(t *testing.T, f Forest) {
	t.Helper()
	seen := map[*Node]bool{}
	ids := map[string]bool{}
	var visit func(nodes []*Node)
	visit = func(nodes []*Node) {
		for _, n := range nodes {
			if n == nil {
				continue
			}
			require.False(t, seen[n], "node %q reachable twice", n.Key())
			seen[n] = true
			if IsFile(n) {
				require.False(t, ids[n.EntryID], "entry id %q repeated", n.EntryID)
				ids[n.EntryID] = true
			}
			if IsDirectory(n) {
				visit(n.Children)
			}
		}
	}
	visit(f)
}
