// Package model defines domain entities used by services and repositories.
package model

import "time"

// Question is a user-submitted question. Title and Content are stored censored.
type Question struct {
	ID        QuestionID // zero until persisted
	Title     string
	Content   string
	Tags      []string  // optional, order preserved
	AccountID AccountID // owner, immutable once persisted
}

// Answer belongs to an existing question and to the account that wrote it.
type Answer struct {
	ID         AnswerID
	Content    string
	QuestionID QuestionID
	AccountID  AccountID
}

// Account is a registered user. Password holds the encoded Argon2id hash, never plaintext.
type Account struct {
	ID       AccountID
	Email    string // unique
	Password string
}

// Session is the verified content of a token. Valid in [NotBefore, ExpiresAt).
type Session struct {
	AccountID AccountID
	IssuedAt  time.Time
	NotBefore time.Time
	ExpiresAt time.Time
}

// Pagination is a window over an ordered result set. A nil Limit means no limit.
type Pagination struct {
	Offset int64
	Limit  *int64
}
