package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	pkgcrypto "github.com/and161185/qna/internal/crypto"
	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/limiter"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/repository"
)

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(accountID model.AccountID) (string, model.Session, error)
}

// AuthService defines account registration and login.
type AuthService interface {
	// Register creates a new account with secure password hashing.
	Register(ctx context.Context, email, password string) (model.Account, error)
	// Login applies rate-limiting, verifies credentials and issues a token.
	Login(ctx context.Context, email, password, ip string) (string, model.Session, error)
}

type AuthServiceImpl struct {
	accounts repository.AccountRepository
	tokens   TokenIssuer
	lim      limiter.Limiter
	verify   func(encoded, password string) (bool, error)
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(accounts repository.AccountRepository, tokens TokenIssuer, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{accounts: accounts, tokens: tokens, lim: lim, verify: pkgcrypto.VerifyPassword}
}

// dummyHash is verified against when the email is unknown, so both failure
// paths pay the same Argon2 cost.
var dummyHash = sync.OnceValue(func() string {
	h, err := pkgcrypto.HashPassword("qna: no such account")
	if err != nil {
		panic(fmt.Sprintf("hash dummy password: %v", err))
	}
	return h
})

// Register stores the account with an Argon2id hash; the plaintext is never persisted.
func (s *AuthServiceImpl) Register(ctx context.Context, email, password string) (model.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Account{}, fmt.Errorf("%w: email and password are required", errs.ErrValidation)
	}
	hash, err := pkgcrypto.HashPassword(password)
	if err != nil {
		return model.Account{}, err
	}
	acc, err := s.accounts.AddAccount(ctx, model.Account{Email: email, Password: hash})
	if err != nil {
		return model.Account{}, err
	}
	acc.Password = ""
	return acc, nil
}

// Login authenticates with rate limiting by (email, ip). Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (string, model.Session, error) {
	email = strings.TrimSpace(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return "", model.Session{}, err
	}
	if !allowed {
		return "", model.Session{}, errs.ErrRateLimited
	}

	acc, err := s.accounts.GetAccount(ctx, email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return "", model.Session{}, err
	}

	known := err == nil
	encoded := acc.Password
	if !known {
		encoded = dummyHash()
	}
	ok, err := s.verify(encoded, password)
	if err != nil {
		return "", model.Session{}, fmt.Errorf("verify password: %w", err)
	}
	ok = ok && known

	if !ok {
		// Record failure; if threshold reached, return rate-limited.
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return "", model.Session{}, errs.ErrRateLimited
		}
		return "", model.Session{}, errs.ErrWrongPassword
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	return s.tokens.Issue(acc.ID)
}
