package vfs

import (
	"sort"
	"time"

	json "github.com/goccy/go-json"
)

// SerializedForest is the keyed form of the root level: entry id for files,
// name for directories. Map iteration order means root order is lost.
type SerializedForest map[string]*Node

// Snapshot is the persisted form. Order carries the root keys so a round trip
// keeps the user's root ordering.
type Snapshot struct {
	Order []string         `json:"order"`
	Nodes SerializedForest `json:"nodes"`
}

// ToMapping keys the root nodes by Key. Nodes without a key are dropped.
func ToMapping(f Forest) SerializedForest {
	m := make(SerializedForest, len(f))
	for _, n := range f {
		if k := n.Key(); k != "" {
			m[k] = n.Clone()
		}
	}
	return m
}

// FromMapping rebuilds a forest from m, ordering roots by key.
func FromMapping(m SerializedForest) Forest {
	keys := make([]string, 0, len(m))
	for k, n := range m {
		if n != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make(Forest, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k].Clone())
	}
	return out
}

// NewSnapshot captures f including its root order.
func NewSnapshot(f Forest) Snapshot {
	s := Snapshot{Order: make([]string, 0, len(f)), Nodes: ToMapping(f)}
	for _, n := range f {
		if k := n.Key(); k != "" {
			s.Order = append(s.Order, k)
		}
	}
	return s
}

// Forest rebuilds the forest. Keys listed in Order come first, in that order;
// any other keys follow sorted.
func (s Snapshot) Forest() Forest {
	out := make(Forest, 0, len(s.Nodes))
	used := make(map[string]struct{}, len(s.Nodes))
	for _, k := range s.Order {
		n, ok := s.Nodes[k]
		if !ok || n == nil {
			continue
		}
		if _, dup := used[k]; dup {
			continue
		}
		used[k] = struct{}{}
		out = append(out, n.Clone())
	}
	rest := make(SerializedForest)
	for k, n := range s.Nodes {
		if _, ok := used[k]; !ok {
			rest[k] = n
		}
	}
	return append(out, FromMapping(rest)...)
}

// EncodeSnapshot renders s as JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s.Nodes == nil {
		s.Nodes = SerializedForest{}
	}
	if s.Order == nil {
		s.Order = []string{}
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a snapshot written by EncodeSnapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	if s.Nodes == nil {
		s.Nodes = SerializedForest{}
	}
	return s, nil
}

type fileJSON struct {
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	EntryID   string    `json:"entryId"`
	Topics    []string  `json:"topics"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type dirJSON struct {
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Children []*Node `json:"children"`
	IsOpen   bool    `json:"isOpen"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	if n.Kind == KindDirectory {
		children := n.Children
		if children == nil {
			children = []*Node{}
		}
		return json.Marshal(dirJSON{
			Kind:     KindDirectory.String(),
			Name:     n.Name,
			Children: children,
			IsOpen:   n.IsOpen,
		})
	}
	topics := n.Topics
	if topics == nil {
		topics = []string{}
	}
	return json.Marshal(fileJSON{
		Kind:      KindFile.String(),
		Name:      n.Name,
		EntryID:   n.EntryID,
		Topics:    topics,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	})
}

// UnmarshalJSON accepts nodes with or without "kind". Without it, a node that
// carries a "children" key is a directory.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind      string    `json:"kind"`
		Name      string    `json:"name"`
		Children  *[]*Node  `json:"children"`
		IsOpen    bool      `json:"isOpen"`
		EntryID   string    `json:"entryId"`
		Topics    []string  `json:"topics"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	dir := raw.Children != nil
	switch raw.Kind {
	case KindDirectory.String():
		dir = true
	case KindFile.String():
		dir = false
	}

	if dir {
		*n = Node{Kind: KindDirectory, Name: raw.Name, IsOpen: raw.IsOpen, Children: []*Node{}}
		if raw.Children != nil {
			n.Children = *raw.Children
		}
		return nil
	}
	*n = *NewFile(raw.Name, raw.EntryID, raw.Topics, raw.CreatedAt, raw.UpdatedAt)
	return nil
}
