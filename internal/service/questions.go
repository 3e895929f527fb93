// Package service contains application services for questions, answers and accounts.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/repository"
)

// QuestionService defines question operations. Mutations run
// authorize → censor → persist; nothing is written when censoring fails.
type QuestionService interface {
	// GetQuestions returns a page of questions.
	GetQuestions(ctx context.Context, p model.Pagination) ([]model.Question, error)
	// GetQuestion returns a single question by id.
	GetQuestion(ctx context.Context, id model.QuestionID) (model.Question, error)
	// AddQuestion censors title and content, then stores the question for owner.
	AddQuestion(ctx context.Context, owner model.AccountID, q model.Question) (model.Question, error)
	// UpdateQuestion replaces a question owned by owner.
	UpdateQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID, q model.Question) (model.Question, error)
	// DeleteQuestion removes a question owned by owner.
	DeleteQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID) error
	// IsQuestionOwner reports ownership; a missing question is errs.ErrNotFound.
	IsQuestionOwner(ctx context.Context, id model.QuestionID, account model.AccountID) (bool, error)
}

type QuestionServiceImpl struct {
	repo   repository.QuestionRepository
	censor Censorer
}

// NewQuestionService constructs QuestionService.
func NewQuestionService(repo repository.QuestionRepository, c Censorer) *QuestionServiceImpl {
	return &QuestionServiceImpl{repo: repo, censor: c}
}

func validateQuestion(q model.Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: title is required", errs.ErrValidation)
	}
	if strings.TrimSpace(q.Content) == "" {
		return fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	return nil
}

func (s *QuestionServiceImpl) GetQuestions(ctx context.Context, p model.Pagination) ([]model.Question, error) {
	return s.repo.GetQuestions(ctx, p)
}

func (s *QuestionServiceImpl) GetQuestion(ctx context.Context, id model.QuestionID) (model.Question, error) {
	return s.repo.GetQuestion(ctx, id)
}

func (s *QuestionServiceImpl) IsQuestionOwner(ctx context.Context, id model.QuestionID, account model.AccountID) (bool, error) {
	return s.repo.IsQuestionOwner(ctx, id, account)
}

func (s *QuestionServiceImpl) AddQuestion(ctx context.Context, owner model.AccountID, q model.Question) (model.Question, error) {
	if err := validateQuestion(q); err != nil {
		return model.Question{}, err
	}
	title, content, err := censorPair(ctx, s.censor, q.Title, q.Content)
	if err != nil {
		return model.Question{}, fmt.Errorf("censor question: %w", err)
	}
	q.Title, q.Content = title, content
	return s.repo.AddQuestion(ctx, owner, q)
}

func (s *QuestionServiceImpl) UpdateQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID, q model.Question) (model.Question, error) {
	if err := validateQuestion(q); err != nil {
		return model.Question{}, err
	}
	if err := s.authorize(ctx, id, owner); err != nil {
		return model.Question{}, err
	}
	title, content, err := censorPair(ctx, s.censor, q.Title, q.Content)
	if err != nil {
		return model.Question{}, fmt.Errorf("censor question: %w", err)
	}
	q.Title, q.Content = title, content
	return s.repo.UpdateQuestion(ctx, owner, q, id)
}

func (s *QuestionServiceImpl) DeleteQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID) error {
	if err := s.authorize(ctx, id, owner); err != nil {
		return err
	}
	deleted, err := s.repo.DeleteQuestion(ctx, owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.ErrNotFound
	}
	return nil
}

// authorize splits the ownership check into its two failure modes:
// errs.ErrNotFound for a missing question, errs.ErrUnauthorized for a foreign one.
func (s *QuestionServiceImpl) authorize(ctx context.Context, id model.QuestionID, account model.AccountID) error {
	owner, err := s.repo.IsQuestionOwner(ctx, id, account)
	if err != nil {
		return err
	}
	if !owner {
		return errs.ErrUnauthorized
	}
	return nil
}
