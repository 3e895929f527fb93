package httpserver

import (
	"net/http"

	"github.com/and161185/qna/internal/convert"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/pagination"
)

func (s *Server) handleGetAnswers(w http.ResponseWriter, r *http.Request) {
	qid, err := pathID[model.QuestionKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := pagination.Extract(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	as, err := s.answers.GetAnswers(r.Context(), qid, p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.ToAnswers(as))
}

func (s *Server) handleAddAnswer(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qid, err := pathID[model.QuestionKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body convert.NewAnswer
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.answers.AddAnswer(r.Context(), owner, qid, body.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, convert.ToAnswer(a))
}

func (s *Server) handleUpdateAnswer(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID[model.AnswerKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var body convert.NewAnswer
	if err := decodeBody(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.answers.UpdateAnswer(r.Context(), owner, id, body.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.ToAnswer(a))
}

func (s *Server) handleDeleteAnswer(w http.ResponseWriter, r *http.Request) {
	owner, err := accountID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID[model.AnswerKind](r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.answers.DeleteAnswer(r.Context(), owner, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, "Answer deleted")
}
