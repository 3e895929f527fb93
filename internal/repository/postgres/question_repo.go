package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/qna/internal/model"
)

// QuestionRepo implements QuestionRepository using PostgreSQL.
type QuestionRepo struct{ db *DB }

// NewQuestionRepo constructs a question repository.
func NewQuestionRepo(db *DB) *QuestionRepo { return &QuestionRepo{db: db} }

const questionCols = `id, title, content, tags, account_id`

func scanQuestion(row pgx.Row) (model.Question, error) {
	var (
		q         model.Question
		id, owner int32
	)
	if err := row.Scan(&id, &q.Title, &q.Content, &q.Tags, &owner); err != nil {
		return model.Question{}, err
	}
	q.ID = model.QuestionID(id)
	q.AccountID = model.AccountID(owner)
	return q, nil
}

// GetQuestions returns a page of questions in insertion order.
func (r *QuestionRepo) GetQuestions(ctx context.Context, p model.Pagination) ([]model.Question, error) {
	const q = `
SELECT ` + questionCols + `
FROM questions
ORDER BY id
LIMIT $1 OFFSET $2`
	rows, err := r.db.Pool.Query(ctx, q, limitArg(p), p.Offset)
	if err != nil {
		return nil, classify("get questions", err)
	}
	defer rows.Close()

	out := []model.Question{}
	for rows.Next() {
		qu, err := scanQuestion(rows)
		if err != nil {
			return nil, classify("get questions", err)
		}
		out = append(out, qu)
	}
	return out, classify("get questions", rows.Err())
}

// GetQuestion selects a question by id.
func (r *QuestionRepo) GetQuestion(ctx context.Context, id model.QuestionID) (model.Question, error) {
	const q = `
SELECT ` + questionCols + `
FROM questions WHERE id = $1`
	qu, err := scanQuestion(r.db.Pool.QueryRow(ctx, q, id.Int32()))
	if err != nil {
		return model.Question{}, classify("get question", err)
	}
	return qu, nil
}

// AddQuestion inserts a question row.
func (r *QuestionRepo) AddQuestion(ctx context.Context, owner model.AccountID, in model.Question) (model.Question, error) {
	const q = `
INSERT INTO questions (title, content, tags, account_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + questionCols
	qu, err := scanQuestion(r.db.Pool.QueryRow(ctx, q, in.Title, in.Content, in.Tags, owner.Int32()))
	if err != nil {
		return model.Question{}, classify("add question", err)
	}
	return qu, nil
}

// IsQuestionOwner reads the stored owner of a question.
func (r *QuestionRepo) IsQuestionOwner(ctx context.Context, id model.QuestionID, account model.AccountID) (bool, error) {
	const q = `SELECT account_id FROM questions WHERE id = $1`
	var owner int32
	if err := r.db.Pool.QueryRow(ctx, q, id.Int32()).Scan(&owner); err != nil {
		return false, classify("check question owner", err)
	}
	return owner == account.Int32(), nil
}

// UpdateQuestion rewrites a question; the owner filter makes a foreign row invisible.
func (r *QuestionRepo) UpdateQuestion(ctx context.Context, owner model.AccountID, in model.Question, id model.QuestionID) (model.Question, error) {
	const q = `
UPDATE questions
SET title = $1, content = $2, tags = $3
WHERE id = $4 AND account_id = $5
RETURNING ` + questionCols
	qu, err := scanQuestion(r.db.Pool.QueryRow(ctx, q, in.Title, in.Content, in.Tags, id.Int32(), owner.Int32()))
	if err != nil {
		return model.Question{}, classify("update question", err)
	}
	return qu, nil
}

// DeleteQuestion removes a question owned by owner. Answers go with it (ON DELETE CASCADE).
func (r *QuestionRepo) DeleteQuestion(ctx context.Context, owner model.AccountID, id model.QuestionID) (bool, error) {
	const q = `DELETE FROM questions WHERE id = $1 AND account_id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, id.Int32(), owner.Int32())
	if err != nil {
		return false, classify("delete question", err)
	}
	return tag.RowsAffected() > 0, nil
}
