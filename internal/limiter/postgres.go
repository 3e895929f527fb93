package limiter

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/and161185/qna/internal/errs"
)

// Querier is the subset of a pgx pool the limiter needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PG keeps lockout state in the login_attempts table. All time arithmetic
// runs on the database clock so replicas of the server agree on it.
type PG struct {
	db     Querier
	policy Policy
}

// NewPG returns a limiter over the login_attempts table.
func NewPG(q Querier, p Policy) *PG {
	return &PG{db: q, policy: p}
}

const (
	allowSQL = `SELECT blocked_until, now() FROM login_attempts WHERE email = $1 AND ip_hash = $2`

	successSQL = `DELETE FROM login_attempts WHERE email = $1 AND ip_hash = $2`

	// $3 window seconds, $4 max fails, $5 block seconds.
	windowExpired = `now() - a.updated_at > make_interval(secs => $3)`
	nextFails     = `CASE WHEN ` + windowExpired + ` THEN 1 ELSE a.fail_count + 1 END`

	failureSQL = `
INSERT INTO login_attempts AS a (email, ip_hash, fail_count, blocked_until, updated_at)
VALUES ($1, $2, 1, CASE WHEN $4 <= 1 THEN now() + make_interval(secs => $5) ELSE 'epoch' END, now())
ON CONFLICT (email, ip_hash) DO UPDATE SET
	fail_count = ` + nextFails + `,
	blocked_until = CASE WHEN ` + nextFails + ` >= $4
		THEN now() + make_interval(secs => $5) ELSE a.blocked_until END,
	updated_at = now()
RETURNING fail_count, blocked_until, now()`
)

func (l *PG) Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	var blockedUntil, now time.Time
	err := l.db.QueryRow(ctx, allowSQL, email, ipHash).Scan(&blockedUntil, &now)
	if errors.Is(err, pgx.ErrNoRows) {
		return true, 0, nil
	}
	if err != nil {
		return false, 0, errs.Database("check login attempts", err)
	}
	if left := blockedUntil.Sub(now); left > 0 {
		return false, left, nil
	}
	return true, 0, nil
}

// Success forgets the pair entirely.
func (l *PG) Success(ctx context.Context, email string, ipHash []byte) error {
	if _, err := l.db.Exec(ctx, successSQL, email, ipHash); err != nil {
		return errs.Database("reset login attempts", err)
	}
	return nil
}

// Failure counts one failed attempt and, in the same statement, places the
// block once the count inside the window reaches MaxFails.
func (l *PG) Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	var (
		fails             int32
		blockedUntil, now time.Time
	)
	err := l.db.QueryRow(ctx, failureSQL,
		email, ipHash,
		l.policy.Window.Seconds(), l.policy.MaxFails, l.policy.BlockFor.Seconds(),
	).Scan(&fails, &blockedUntil, &now)
	if err != nil {
		return false, 0, errs.Database("record login failure", err)
	}
	if int(fails) < l.policy.MaxFails {
		return false, 0, nil
	}
	return true, blockedUntil.Sub(now), nil
}
