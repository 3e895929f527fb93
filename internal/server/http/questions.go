package httpserver

import (
	"net/http"

	"github.com/and161185/qna/internal/convert"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/pagination"
)

func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	p, err := pagination.Extract(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qs, err := s.questions.GetQuestions(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.ToQuestions(qs))
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID[model.QuestionKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.questions.GetQuestion(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.ToQuestion(q))
}

func (s *Server) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body convert.NewQuestion
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.questions.AddQuestion(r.Context(), owner, convert.FromNewQuestion(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, convert.ToQuestion(q))
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID[model.QuestionKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body convert.NewQuestion
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := s.questions.UpdateQuestion(r.Context(), owner, id, convert.FromNewQuestion(body))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.ToQuestion(q))
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID[model.QuestionKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.questions.DeleteQuestion(r.Context(), owner, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, "Question deleted")
}
