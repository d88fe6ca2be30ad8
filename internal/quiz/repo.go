package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mind-engage/quizvfs/internal/vfs"
)

var (
	ErrNotFound = errors.New("quiz not found")
	ErrInvalid  = errors.New("invalid quiz")
)

type ListOpts struct {
	Q      string // case-insensitive substring of the name
	Limit  int    // 0 = no limit
	Offset int
}

type Store interface {
	PutQuiz(ctx context.Context, q Quiz) (Quiz, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	ListQuizzes(ctx context.Context, opts ListOpts) ([]Summary, error)
	DeleteQuiz(ctx context.Context, id string) error
}

// NewID returns a 24 character lowercase hex id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:24]
}

// Records lists every quiz in the store as tree records, oldest first.
func Records(ctx context.Context, s Store) ([]vfs.QuizRecord, error) {
	list, err := s.ListQuizzes(ctx, ListOpts{})
	if err != nil {
		return nil, err
	}
	out := make([]vfs.QuizRecord, 0, len(list))
	for _, q := range list {
		out = append(out, q.Record())
	}
	return out, nil
}

func validate(q Quiz) error {
	if strings.TrimSpace(q.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalid)
	}
	if q.ID != "" && !vfs.IsEntryID(q.ID) {
		return fmt.Errorf("%w: id must be 24 lowercase hex characters", ErrInvalid)
	}
	return nil
}
