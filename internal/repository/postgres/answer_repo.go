package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

// AnswerRepo implements AnswerRepository using PostgreSQL.
type AnswerRepo struct{ db *DB }

// NewAnswerRepo constructs an answer repository.
func NewAnswerRepo(db *DB) *AnswerRepo { return &AnswerRepo{db: db} }

const answerCols = `id, content, question_id, account_id`

func scanAnswer(row pgx.Row) (model.Answer, error) {
	var (
		a              model.Answer
		id, qid, owner int32
	)
	if err := row.Scan(&id, &a.Content, &qid, &owner); err != nil {
		return model.Answer{}, err
	}
	a.ID = model.AnswerID(id)
	a.QuestionID = model.QuestionID(qid)
	a.AccountID = model.AccountID(owner)
	return a, nil
}

// GetAnswers returns a page of the answers to one question.
func (r *AnswerRepo) GetAnswers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error) {
	const q = `
SELECT ` + answerCols + `
FROM answers
WHERE question_id = $1
ORDER BY id
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, questionID.Int32(), limitArg(p), p.Offset)
	if err != nil {
		return nil, classify("get answers", err)
	}
	defer rows.Close()

	out := []model.Answer{}
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, classify("get answers", err)
		}
		out = append(out, a)
	}
	return out, classify("get answers", rows.Err())
}

// AddAnswer inserts an answer; a missing question surfaces as errs.ErrNotFound.
func (r *AnswerRepo) AddAnswer(ctx context.Context, owner model.AccountID, questionID model.QuestionID, content string) (model.Answer, error) {
	const q = `
INSERT INTO answers (content, question_id, account_id)
VALUES ($1, $2, $3)
RETURNING ` + answerCols
	a, err := scanAnswer(r.db.Pool.QueryRow(ctx, q, content, questionID.Int32(), owner.Int32()))
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Answer{}, errs.ErrNotFound
		}
		return model.Answer{}, classify("add answer", err)
	}
	return a, nil
}

func (r *AnswerRepo) IsAnswerOwner(ctx context.Context, id model.AnswerID, account model.AccountID) (bool, error) {
	const q = `SELECT account_id FROM answers WHERE id = $1`
	var owner int32
	if err := r.db.Pool.QueryRow(ctx, q, id.Int32()).Scan(&owner); err != nil {
		return false, classify("check answer owner", err)
	}
	return owner == account.Int32(), nil
}

func (r *AnswerRepo) UpdateAnswer(ctx context.Context, owner model.AccountID, content string, id model.AnswerID) (model.Answer, error) {
	const q = `
UPDATE answers
SET content = $1
WHERE id = $2 AND account_id = $3
RETURNING ` + answerCols
	a, err := scanAnswer(r.db.Pool.QueryRow(ctx, q, content, id.Int32(), owner.Int32()))
	if err != nil {
		return model.Answer{}, classify("update answer", err)
	}
	return a, nil
}

func (r *AnswerRepo) DeleteAnswer(ctx context.Context, owner model.AccountID, id model.AnswerID) (bool, error) {
	const q = `DELETE FROM answers WHERE id = $1 AND account_id = $2`
	tag, err := r.db.Pool.Exec(ctx, q, id.Int32(), owner.Int32())
	if err != nil {
		return false, classify("delete answer", err)
	}
	return tag.RowsAffected() > 0, nil
}
