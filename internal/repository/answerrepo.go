package repository

import (
	"context"

	"github.com/and161185/qna/internal/model"
)

// AnswerRepository provides owner-scoped access to answers.
type AnswerRepository interface {
	GetAnswers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error)
	// AddAnswer fails with errs.ErrNotFound when the question does not exist.
	AddAnswer(ctx context.Context, owner model.AccountID, questionID model.QuestionID, content string) (model.Answer, error)
	IsAnswerOwner(ctx context.Context, id model.AnswerID, account model.AccountID) (bool, error)
	UpdateAnswer(ctx context.Context, owner model.AccountID, content string, id model.AnswerID) (model.Answer, error)
	DeleteAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID) (bool, error)
}
