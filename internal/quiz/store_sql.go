package quiz

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	if err := validate(q); err != nil {
		return Quiz{}, err
	}
	if q.ID == "" {
		q.ID = NewID()
	}
	ts := now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = ts
	}
	q.UpdatedAt = ts

	tj, err := json.Marshal(nonNil(q.Topics))
	if err != nil {
		return Quiz{}, err
	}
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, err
	}
	// created_at is kept on conflict so re-saving never moves a quiz in listings.
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes (id,name,topics_json,questions_json,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, topics_json=EXCLUDED.topics_json,
			questions_json=EXCLUDED.questions_json, updated_at=EXCLUDED.updated_at`,
		q.ID, q.Name, string(tj), string(qj), q.CreatedAt.Unix(), q.UpdatedAt.Unix())
	if err != nil {
		return Quiz{}, err
	}
	return s.GetQuiz(ctx, q.ID)
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,name,topics_json,questions_json,created_at,updated_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var tjson, qjson string
	var created, updated int64
	if err := row.Scan(&q.ID, &q.Name, &tjson, &qjson, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	if err := json.Unmarshal([]byte(tjson), &q.Topics); err != nil {
		q.Topics = []string{}
	}
	if err := json.Unmarshal([]byte(qjson), &q.Questions); err != nil {
		return Quiz{}, err
	}
	q.CreatedAt = time.Unix(created, 0).UTC()
	q.UpdatedAt = time.Unix(updated, 0).UTC()
	return q, nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]Summary, error) {
	query := `SELECT id,name,topics_json,questions_json,created_at,updated_at FROM quizzes`
	var args []any
	if needle := strings.TrimSpace(opts.Q); needle != "" {
		query += ` WHERE LOWER(name) LIKE $1`
		args = append(args, "%"+strings.ToLower(needle)+"%")
	}
	query += ` ORDER BY created_at ASC, id ASC`
	switch {
	case opts.Limit > 0:
		query += ` LIMIT ` + strconv.Itoa(opts.Limit)
	case opts.Offset > 0 && s.driver != "postgres":
		// sqlite only accepts OFFSET after a LIMIT
		query += ` LIMIT -1`
	}
	if opts.Offset > 0 {
		query += ` OFFSET ` + strconv.Itoa(opts.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var q Quiz
		var tjson, qjson string
		var created, updated int64
		if err := rows.Scan(&q.ID, &q.Name, &tjson, &qjson, &created, &updated); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(tjson), &q.Topics)
		_ = json.Unmarshal([]byte(qjson), &q.Questions)
		q.CreatedAt = time.Unix(created, 0).UTC()
		q.UpdatedAt = time.Unix(updated, 0).UTC()
		out = append(out, summarize(q))
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
