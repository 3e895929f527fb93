package postgres

import (
	"context"

	"github.com/and161185/qna/internal/model"
)

// AccountRepo implements AccountRepository using PostgreSQL.
type AccountRepo struct{ db *DB }

// NewAccountRepo constructs an account repository.
func NewAccountRepo(db *DB) *AccountRepo { return &AccountRepo{db: db} }

// AddAccount inserts a new account row.
func (r *AccountRepo) AddAccount(ctx context.Context, a model.Account) (model.Account, error) {
	const q = `
INSERT INTO accounts (email, password)
VALUES ($1, $2)
RETURNING id`
	var id int32
	if err := r.db.Pool.QueryRow(ctx, q, a.Email, a.Password).Scan(&id); err != nil {
		return model.Account{}, classify("add account", err)
	}
	a.ID = model.AccountID(id)
	return a, nil
}

// GetAccount selects an account by email.
func (r *AccountRepo) GetAccount(ctx context.Context, email string) (model.Account, error) {
	const q = `
SELECT id, email, password
FROM accounts WHERE email = $1`
	var (
		a  model.Account
		id int32
	)
	if err := r.db.Pool.QueryRow(ctx, q, email).Scan(&id, &a.Email, &a.Password); err != nil {
		return model.Account{}, classify("get account", err)
	}
	a.ID = model.AccountID(id)
	return a, nil
}
