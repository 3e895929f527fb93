package repository

import (
	"context"

	"github.com/and161185/qna/internal/model"
)

// AccountRepository stores registered accounts.
type AccountRepository interface {
	// AddAccount inserts a; a taken email yields errs.ErrAlreadyExists.
	AddAccount(ctx context.Context, a model.Account) (model.Account, error)
	// GetAccount loads an account by email.
	GetAccount(ctx context.Context, email string) (model.Account, error)
}
