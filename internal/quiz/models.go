package quiz

import (
	"time"

	"github.com/mind-engage/quizvfs/internal/vfs"
)

type Choice struct {
	ID        string `json:"id,omitempty"`
	LabelHTML string `json:"label_html,omitempty"`
}

type Question struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"` // mcq_single, mcq_multi, true_false, short_word, numeric, essay, ...
	PromptHTML string   `json:"prompt_html,omitempty"`
	Choices    []Choice `json:"choices,omitempty"`
	AnswerKey  []string `json:"answer_key,omitempty"`
	Points     float64  `json:"points"`
}

type Quiz struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Topics    []string   `json:"topics"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Summary is a quiz without its questions, as returned by listings.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Topics        []string  `json:"topics"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Record is the view of q the sidebar tree is reconciled against.
func (q Summary) Record() vfs.QuizRecord {
	return vfs.QuizRecord{
		ID:        q.ID,
		Name:      q.Name,
		Topics:    q.Topics,
		CreatedAt: q.CreatedAt,
		UpdatedAt: q.UpdatedAt,
	}
}

func summarize(q Quiz) Summary {
	topics := q.Topics
	if topics == nil {
		topics = []string{}
	}
	return Summary{
		ID:            q.ID,
		Name:          q.Name,
		Topics:        topics,
		QuestionCount: len(q.Questions),
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}
