package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizvfs/internal/quiz"
)

func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			Q:      strings.TrimSpace(r.URL.Query().Get("q")),
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// PutQuizHandler creates a quiz, or replaces it when the body carries an id.
func PutQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q quiz.Quiz
		if err := decodeJSON(r, &q); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		status := http.StatusCreated
		if q.ID != "" {
			switch _, err := store.GetQuiz(r.Context(), q.ID); {
			case err == nil:
				status = http.StatusOK
			case !errors.Is(err, quiz.ErrNotFound):
				writeError(w, r, err)
				return
			}
		}
		saved, err := store.PutQuiz(r.Context(), q)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, saved)
	}
}

func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func MountQuizzes(r chi.Router, store quiz.Store) {
	r.Get("/", ListQuizzesHandler(store))
	r.Post("/", PutQuizHandler(store))
	r.Get("/{quizID}", GetQuizHandler(store))
	r.Delete("/{quizID}", DeleteQuizHandler(store))
}
