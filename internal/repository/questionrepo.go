// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/qna/internal/model"
)

// QuestionRepository provides owner-scoped access to questions.
type QuestionRepository interface {
	// GetQuestions returns a page of questions ordered by id.
	GetQuestions(ctx context.Context, p model.Pagination) ([]model.Question, error)
	// GetQuestion loads a question by id.
	GetQuestion(ctx context.Context, id model.QuestionID) (model.Question, error)
	// AddQuestion inserts q owned by owner and returns it with its new id.
	AddQuestion(ctx context.Context, owner model.AccountID, q model.Question) (model.Question, error)
	// IsQuestionOwner compares the stored owner with account. A missing question is errs.ErrNotFound, not false.
	IsQuestionOwner(ctx context.Context, id model.QuestionID, account model.AccountID) (bool, error)
	// UpdateQuestion rewrites title, content and tags of a question owned by owner.
	UpdateQuestion(ctx context.Context, owner model.AccountID, q model.Question, id model.QuestionID) (model.Question, error)
	// DeleteQuestion removes a question owned by owner; false when no row matched.
	DeleteQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID) (bool, error)
}
