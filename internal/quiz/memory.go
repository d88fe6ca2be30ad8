package quiz

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryStore struct {
	mu      sync.RWMutex
	quizzes map[string]Quiz
}

func NewInMemoryStore() Store {
	return &memoryStore{quizzes: map[string]Quiz{}}
}

// now is second-granular so both stores report identical timestamps.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) (Quiz, error) {
	if err := validate(q); err != nil {
		return Quiz{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	ts := now()
	if q.ID == "" {
		q.ID = NewID()
	}
	if prev, ok := m.quizzes[q.ID]; ok {
		q.CreatedAt = prev.CreatedAt
	} else if q.CreatedAt.IsZero() {
		q.CreatedAt = ts
	}
	q.UpdatedAt = ts
	q = copyQuiz(q)
	m.quizzes[q.ID] = q
	return copyQuiz(q), nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return copyQuiz(q), nil
}

func (m *memoryStore) ListQuizzes(_ context.Context, opts ListOpts) ([]Summary, error) {
	m.mu.RLock()
	all := make([]Quiz, 0, len(m.quizzes))
	for _, q := range m.quizzes {
		all = append(all, q)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	needle := strings.ToLower(strings.TrimSpace(opts.Q))
	out := []Summary{}
	skipped := 0
	for _, q := range all {
		if needle != "" && !strings.Contains(strings.ToLower(q.Name), needle) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
		out = append(out, summarize(copyQuiz(q)))
	}
	return out, nil
}

func (m *memoryStore) DeleteQuiz(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func copyQuiz(q Quiz) Quiz {
	q.Topics = slices.Clone(q.Topics)
	q.Questions = slices.Clone(q.Questions)
	return q
}
