package vfs

import (
	"fmt"

	"github.com/mind-engage/quizvfs/internal/logging"
)

// Reconcile brings existing in line with the authoritative quiz list.
//
// File entries whose quiz disappeared are dropped at every depth, entries for
// quizzes not yet in the tree are appended to the root in list order, and
// entries that survive are refreshed from their record. Directories are never
// dropped. Surviving nodes keep their folder and their relative order.
func Reconcile(quizzes []QuizRecord, existing Forest) Forest {
	records := make(map[string]QuizRecord, len(quizzes))
	order := make([]string, 0, len(quizzes))
	for _, q := range quizzes {
		if err := validateRecord(q); err != nil {
			logging.Warn("vfs: skipping quiz record", logging.String("id", q.ID), logging.Err(err))
			continue
		}
		if _, dup := records[q.ID]; dup {
			continue
		}
		records[q.ID] = q
		order = append(order, q.ID)
	}

	seen := make(map[string]struct{}, len(records))
	out := filterForest(existing, records, seen)

	for _, id := range order {
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, fileFromRecord(records[id]))
	}
	return out
}

func validateRecord(q QuizRecord) error {
	switch {
	case q.ID == "":
		return fmt.Errorf("%w: missing id", ErrMalformedRecord)
	case q.Name == "":
		return fmt.Errorf("%w: missing name", ErrMalformedRecord)
	}
	return nil
}

// filterForest copies nodes keeping order, drops stale, duplicate and
// malformed file entries, and records every kept entry id in seen.
func filterForest(nodes []*Node, records map[string]QuizRecord, seen map[string]struct{}) Forest {
	out := make(Forest, 0, len(nodes))
	for _, n := range nodes {
		switch {
		case n == nil:
			continue
		case n.Kind == KindDirectory:
			dir := *n
			dir.Children = filterForest(n.Children, records, seen)
			out = append(out, &dir)
		case IsFile(n):
			rec, ok := records[n.EntryID]
			if !ok {
				continue
			}
			if _, dup := seen[n.EntryID]; dup {
				logging.Warn("vfs: dropping duplicate file entry", logging.String("entry_id", n.EntryID))
				continue
			}
			seen[n.EntryID] = struct{}{}
			out = append(out, refreshed(n, rec))
		default:
			logging.Warn("vfs: dropping malformed node",
				logging.String("name", n.Name), logging.String("kind", n.Kind.String()))
		}
	}
	return out
}

func refreshed(n *Node, rec QuizRecord) *Node {
	c := n.Clone()
	c.Name = rec.Name
	c.Topics = topicSet(rec.Topics)
	if !rec.CreatedAt.IsZero() {
		c.CreatedAt = rec.CreatedAt
	}
	if !rec.UpdatedAt.IsZero() {
		c.UpdatedAt = rec.UpdatedAt
	}
	return c
}

// EntryIDs lists every file entry id in document order.
func EntryIDs(f Forest) []string {
	var ids []string
	Walk(f, func(n, _ *Node) bool {
		if IsFile(n) {
			ids = append(ids, n.EntryID)
		}
		return true
	})
	return ids
}
