// Package vfs implements the quiz sidebar tree: folders and quiz files arranged
// in an ordered forest, reconciled against the quiz store and rearranged by
// drag-and-drop moves.
//
// Every exported operation treats its input forest as a value. It works on a
// deep copy and returns the new forest, so callers decide when to publish it.
package vfs

import (
	"regexp"
	"slices"
	"sort"
	"time"
)

// Kind discriminates the two node variants.
type Kind int

const (
	KindFile Kind = iota + 1
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// RootSentinel is the drop target meaning "forest root". It is never a valid
// folder name.
const RootSentinel = "__root__"

// Node is either a directory or a quiz file, selected by Kind. Directory-only
// fields are zero on files and vice versa.
type Node struct {
	Kind Kind
	Name string

	Children []*Node
	IsOpen   bool

	EntryID   string
	Topics    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Forest is the ordered list of root-level nodes.
type Forest []*Node

// QuizRecord is the subset of a stored quiz the tree cares about.
type QuizRecord struct {
	ID        string
	Name      string
	Topics    []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDirectory returns an empty, closed directory.
func NewDirectory(name string) *Node {
	return &Node{Kind: KindDirectory, Name: name, Children: []*Node{}}
}

// NewFile returns a file entry pointing at quiz entryID.
func NewFile(name, entryID string, topics []string, createdAt, updatedAt time.Time) *Node {
	return &Node{
		Kind:      KindFile,
		Name:      name,
		EntryID:   entryID,
		Topics:    topicSet(topics),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

func fileFromRecord(r QuizRecord) *Node {
	return NewFile(r.Name, r.ID, r.Topics, r.CreatedAt, r.UpdatedAt)
}

// IsDirectory reports whether n is a directory. It is nil-safe.
func IsDirectory(n *Node) bool {
	return n != nil && n.Kind == KindDirectory
}

// IsDirectory reports whether n is a directory.
func (n *Node) IsDirectory() bool { return IsDirectory(n) }

// IsFile reports whether n is a well-formed file entry.
func IsFile(n *Node) bool {
	return n != nil && n.Kind == KindFile && n.EntryID != ""
}

// Key is the identity used by the serialized form and by move requests:
// the entry id for files, the name for directories.
func (n *Node) Key() string {
	if n == nil {
		return ""
	}
	if n.Kind == KindFile {
		return n.EntryID
	}
	return n.Name
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Topics = slices.Clone(n.Topics)
	if n.Kind == KindDirectory {
		c.Children = Forest(n.Children).Clone()
	}
	return &c
}

// Clone returns a deep copy of f. Nil entries are kept so that callers see the
// same shape they passed in; the engine skips them anyway.
func (f Forest) Clone() Forest {
	out := make(Forest, len(f))
	for i, n := range f {
		out[i] = n.Clone()
	}
	return out
}

// Walk visits every node in document order. Returning false from fn stops
// descent into that node's children.
func Walk(f Forest, fn func(n, parent *Node) bool) {
	walk(f, nil, fn)
}

func walk(nodes []*Node, parent *Node, fn func(n, parent *Node) bool) {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if !fn(n, parent) {
			continue
		}
		if n.Kind == KindDirectory {
			walk(n.Children, n, fn)
		}
	}
}

// CountNodes counts all non-nil nodes in the forest.
func CountNodes(f Forest) int {
	count := 0
	Walk(f, func(*Node, *Node) bool {
		count++
		return true
	})
	return count
}

var entryIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// IsEntryID reports whether s has the shape of a quiz id (24 lowercase hex
// characters). Only used to classify keys the forest cannot resolve.
func IsEntryID(s string) bool {
	return entryIDPattern.MatchString(s)
}

func topicSet(topics []string) []string {
	if len(topics) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
