package model

import (
	"errors"
	"fmt"
	"strconv"
)

// Resource kinds used to keep identifiers of different tables apart at compile time.
type (
	QuestionKind struct{}
	AnswerKind   struct{}
	AccountKind  struct{}
)

// ID is a server-assigned row identifier of resource kind K.
type ID[K any] int32

// Identifier aliases for each resource.
type (
	QuestionID = ID[QuestionKind]
	AnswerID   = ID[AnswerKind]
	AccountID  = ID[AccountKind]
)

// ErrInvalidID is returned for empty, malformed or non-positive identifiers.
var ErrInvalidID = errors.New("invalid id")

// NewID validates that v is a usable identifier (strictly positive).
func NewID[K any](v int32) (ID[K], error) {
	if v <= 0 {
		return 0, fmt.Errorf("%w: %d is not positive", ErrInvalidID, v)
	}
	return ID[K](v), nil
}

// ParseID parses a decimal identifier as found in URL paths.
func ParseID[K any](s string) (ID[K], error) {
	if s == "" {
		return 0, fmt.Errorf("%w: no id provided", ErrInvalidID)
	}
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: invalid id format", ErrInvalidID, s)
	}
	return NewID[K](int32(v))
}

// Int32 returns the raw value, as bound to SQL parameters.
func (id ID[K]) Int32() int32 { return int32(id) }

// IsZero reports whether the identifier was never assigned.
func (id ID[K]) IsZero() bool { return id == 0 }

func (id ID[K]) String() string { return strconv.FormatInt(int64(id), 10) }
