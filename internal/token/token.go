// Package token issues and verifies signed session tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

const minKeyLen = 32

// Claims is the token payload: the account plus the validity window.
type Claims struct {
	AccountID int32 `json:"account_id"`
	jwt.RegisteredClaims
}

// Manager signs tokens with an HS256 key held in memory.
type Manager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewManager requires a key of at least 32 bytes.
func NewManager(key []byte, ttl time.Duration) (*Manager, error) {
	if len(key) < minKeyLen {
		return nil, fmt.Errorf("token key must be at least %d bytes, got %d", minKeyLen, len(key))
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue creates a token for accountID valid from now until now+ttl.
func (m *Manager) Issue(accountID model.AccountID) (string, model.Session, error) {
	now := m.now()
	claims := Claims{
		AccountID: accountID.Int32(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", model.Session{}, err
	}
	return signed, sessionOf(claims), nil
}

// Verify checks signature and validity window. Every failure matches
// errs.ErrInvalidToken; expiry and not-yet-valid also match errs.ErrTokenExpired.
func (m *Manager) Verify(raw string) (model.Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenNotValidYet) {
			return model.Session{}, errors.Join(errs.ErrInvalidToken, errs.ErrTokenExpired)
		}
		return model.Session{}, fmt.Errorf("%w: %w", errs.ErrInvalidToken, err)
	}

	if _, err := model.NewID[model.AccountKind](claims.AccountID); err != nil {
		return model.Session{}, fmt.Errorf("%w: %w", errs.ErrInvalidToken, err)
	}
	return sessionOf(claims), nil
}

func sessionOf(c Claims) model.Session {
	s := model.Session{AccountID: model.AccountID(c.AccountID)}
	if c.IssuedAt != nil {
		s.IssuedAt = c.IssuedAt.Time
	}
	if c.NotBefore != nil {
		s.NotBefore = c.NotBefore.Time
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s
}
