package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/repository"
)

// AnswerService defines answer operations. Any account may answer an existing
// question; only the author may edit or delete an answer.
type AnswerService interface {
	GetAnswers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error)
	AddAnswer(ctx context.Context, owner model.AccountID, questionID model.QuestionID, content string) (model.Answer, error)
	UpdateAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID, content string) (model.Answer, error)
	DeleteAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID) error
}

type AnswerServiceImpl struct {
	answers   repository.AnswerRepository
	questions repository.QuestionRepository
	censor    Censorer
}

// NewAnswerService constructs AnswerService.
func NewAnswerService(answers repository.AnswerRepository, questions repository.QuestionRepository, c Censorer) *AnswerServiceImpl {
	return &AnswerServiceImpl{answers: answers, questions: questions, censor: c}
}

func validateAnswer(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", errs.ErrValidation)
	}
	return nil
}

// GetAnswers lists the answers of an existing question.
func (s *AnswerServiceImpl) GetAnswers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error) {
	if _, err := s.questions.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answers.GetAnswers(ctx, questionID, p)
}

// AddAnswer checks that the question exists before spending a censor call.
func (s *AnswerServiceImpl) AddAnswer(ctx context.Context, owner model.AccountID, questionID model.QuestionID, content string) (model.Answer, error) {
	if err := validateAnswer(content); err != nil {
		return model.Answer{}, err
	}
	if _, err := s.questions.GetQuestion(ctx, questionID); err != nil {
		return model.Answer{}, err
	}
	censored, err := s.censor.Censor(ctx, content)
	if err != nil {
		return model.Answer{}, fmt.Errorf("censor answer: %w", err)
	}
	return s.answers.AddAnswer(ctx, owner, questionID, censored)
}

func (s *AnswerServiceImpl) UpdateAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID, content string) (model.Answer, error) {
	if err := validateAnswer(content); err != nil {
		return model.Answer{}, err
	}
	if err := s.authorize(ctx, id, owner); err != nil {
		return model.Answer{}, err
	}
	censored, err := s.censor.Censor(ctx, content)
	if err != nil {
		return model.Answer{}, fmt.Errorf("censor answer: %w", err)
	}
	return s.answers.UpdateAnswer(ctx, owner, censored, id)
}

func (s *AnswerServiceImpl) DeleteAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID) error {
	if err := s.authorize(ctx, id, owner); err != nil {
		return err
	}
	deleted, err := s.answers.DeleteAnswer(ctx, owner, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.ErrNotFound
	}
	return nil
}

func (s *AnswerServiceImpl) authorize(ctx context.Context, id model.AnswerID, account model.AccountID) error {
	owner, err := s.answers.IsAnswerOwner(ctx, id, account)
	if err != nil {
		return err
	}
	if !owner {
		return errs.ErrUnauthorized
	}
	return nil
}
