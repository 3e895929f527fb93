package errs

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PaginationError reports a query parameter that could not be parsed.
type PaginationError struct {
	Param string
	Value string
	Err   error
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("invalid pagination parameter %s=%q: %v", e.Param, e.Value, e.Err)
}

func (e *PaginationError) Unwrap() error { return e.Err }

// Is makes every PaginationError match ErrInvalidPagination.
func (e *PaginationError) Is(target error) bool { return target == ErrInvalidPagination }

// DatabaseError wraps a storage driver failure together with the operation that caused it.
type DatabaseError struct {
	Op  string
	Err error
}

// Database wraps err into a DatabaseError unless it is nil or already classified.
func Database(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrAlreadyExists) {
		return err
	}
	return &DatabaseError{Op: op, Err: err}
}

func (e *DatabaseError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *DatabaseError) Unwrap() error { return e.Err }

// Is makes every DatabaseError match ErrDatabase.
func (e *DatabaseError) Is(target error) bool { return target == ErrDatabase }

// Code returns the SQLSTATE of the underlying Postgres error, or "" when there is none.
func (e *DatabaseError) Code() string {
	var pg *pgconn.PgError
	if errors.As(e.Err, &pg) {
		return pg.Code
	}
	return ""
}

// SQLSTATE codes with a dedicated user-facing message.
const (
	UniqueViolation     = "23505"
	ForeignKeyViolation = "23503"
	CheckViolation      = "23514"
	NotNullViolation    = "23502"
)

// PgMessage returns the client-safe message for a SQLSTATE code.
func PgMessage(code string) string {
	switch code {
	case UniqueViolation:
		return "duplicate data"
	case ForeignKeyViolation:
		return "invalid data: referenced resource does not exist"
	case CheckViolation:
		return "invalid data: constraint violation"
	case NotNullViolation:
		return "invalid data: missing required field"
	default:
		return "cannot update data"
	}
}
