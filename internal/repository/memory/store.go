// Package memory is an in-process implementation of the repository interfaces,
// used for development and end-to-end tests.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/pagination"
	"github.com/and161185/qna/internal/repository"
)

var (
	_ repository.QuestionRepository = (*Store)(nil)
	_ repository.AnswerRepository   = (*Store)(nil)
	_ repository.AccountRepository  = (*Store)(nil)
)

// Store keeps every table in id order behind a single lock.
// Identifiers come from per-store counters.
type Store struct {
	mu sync.RWMutex

	questions []model.Question
	answers   []model.Answer
	accounts  []model.Account

	nextQuestion, nextAnswer, nextAccount int32
}

func New() *Store { return &Store{} }

func cloneQuestion(q model.Question) model.Question {
	q.Tags = slices.Clone(q.Tags)
	return q
}

func (s *Store) questionIndex(id model.QuestionID) int {
	return slices.IndexFunc(s.questions, func(q model.Question) bool { return q.ID == id })
}

func (s *Store) answerIndex(id model.AnswerID) int {
	return slices.IndexFunc(s.answers, func(a model.Answer) bool { return a.ID == id })
}

func (s *Store) GetQuestions(ctx context.Context, p model.Pagination) ([]model.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, end := pagination.Window(p, len(s.questions))
	out := make([]model.Question, 0, end-start)
	for _, q := range s.questions[start:end] {
		out = append(out, cloneQuestion(q))
	}
	return out, nil
}

func (s *Store) GetQuestion(ctx context.Context, id model.QuestionID) (model.Question, error) {
	if err := ctx.Err(); err != nil {
		return model.Question{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.questionIndex(id)
	if i < 0 {
		return model.Question{}, errs.ErrNotFound
	}
	return cloneQuestion(s.questions[i]), nil
}

func (s *Store) AddQuestion(ctx context.Context, owner model.AccountID, q model.Question) (model.Question, error) {
	if err := ctx.Err(); err != nil {
		return model.Question{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQuestion++
	q = cloneQuestion(q)
	q.ID = model.QuestionID(s.nextQuestion)
	q.AccountID = owner
	s.questions = append(s.questions, q)
	return cloneQuestion(q), nil
}

func (s *Store) IsQuestionOwner(ctx context.Context, id model.QuestionID, account model.AccountID) (bool, error) {
	q, err := s.GetQuestion(ctx, id)
	if err != nil {
		return false, err
	}
	return q.AccountID == account, nil
}

// UpdateQuestion applies the same owner filter as the SQL statement: a row owned by
// someone else is reported as not found.
func (s *Store) UpdateQuestion(ctx context.Context, owner model.AccountID, q model.Question, id model.QuestionID) (model.Question, error) {
	if err := ctx.Err(); err != nil {
		return model.Question{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.questionIndex(id)
	if i < 0 || s.questions[i].AccountID != owner {
		return model.Question{}, errs.ErrNotFound
	}
	cur := &s.questions[i]
	cur.Title = q.Title
	cur.Content = q.Content
	cur.Tags = slices.Clone(q.Tags)
	return cloneQuestion(*cur), nil
}

// DeleteQuestion also drops the question's answers.
func (s *Store) DeleteQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.questionIndex(id)
	if i < 0 || s.questions[i].AccountID != owner {
		return false, nil
	}
	s.questions = slices.Delete(s.questions, i, i+1)
	s.answers = slices.DeleteFunc(s.answers, func(a model.Answer) bool { return a.QuestionID == id })
	return true, nil
}

func (s *Store) GetAnswers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matching []model.Answer
	for _, a := range s.answers {
		if a.QuestionID == questionID {
			matching = append(matching, a)
		}
	}
	start, end := pagination.Window(p, len(matching))
	return append([]model.Answer{}, matching[start:end]...), nil
}

func (s *Store) AddAnswer(ctx context.Context, owner model.AccountID, questionID model.QuestionID, content string) (model.Answer, error) {
	if err := ctx.Err(); err != nil {
		return model.Answer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.questionIndex(questionID) < 0 {
		return model.Answer{}, errs.ErrNotFound
	}
	s.nextAnswer++
	a := model.Answer{
		ID:         model.AnswerID(s.nextAnswer),
		Content:    content,
		QuestionID: questionID,
		AccountID:  owner,
	}
	s.answers = append(s.answers, a)
	return a, nil
}

func (s *Store) IsAnswerOwner(ctx context.Context, id model.AnswerID, account model.AccountID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.answerIndex(id)
	if i < 0 {
		return false, errs.ErrNotFound
	}
	return s.answers[i].AccountID == account, nil
}

func (s *Store) UpdateAnswer(ctx context.Context, owner model.AccountID, content string, id model.AnswerID) (model.Answer, error) {
	if err := ctx.Err(); err != nil {
		return model.Answer{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.answerIndex(id)
	if i < 0 || s.answers[i].AccountID != owner {
		return model.Answer{}, errs.ErrNotFound
	}
	s.answers[i].Content = content
	return s.answers[i], nil
}

func (s *Store) DeleteAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.answerIndex(id)
	if i < 0 || s.answers[i].AccountID != owner {
		return false, nil
	}
	s.answers = slices.Delete(s.answers, i, i+1)
	return true, nil
}

func (s *Store) AddAccount(ctx context.Context, a model.Account) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.ContainsFunc(s.accounts, func(x model.Account) bool { return x.Email == a.Email }) {
		return model.Account{}, errs.ErrAlreadyExists
	}
	s.nextAccount++
	a.ID = model.AccountID(s.nextAccount)
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) GetAccount(ctx context.Context, email string) (model.Account, error) {
	if err := ctx.Err(); err != nil {
		return model.Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.accounts, func(x model.Account) bool { return x.Email == email })
	if i < 0 {
		return model.Account{}, errs.ErrNotFound
	}
	return s.accounts[i], nil
}
