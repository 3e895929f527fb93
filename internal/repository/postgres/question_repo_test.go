package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var questionColumns = []string{"id", "title", "content", "tags", "account_id"}

func TestQuestionRepo_GetQuestions_Pagination(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()

	limit := int64(2)
	mock.ExpectQuery(`SELECT id, title, content, tags, account_id FROM questions ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(int64(2), int64(1)).
		WillReturnRows(pgxmock.NewRows(questionColumns).
			AddRow(int32(2), "t2", "c2", []string{"go"}, int32(1)).
			AddRow(int32(3), "t3", "c3", []string{}, int32(2)))
	got, err := r.GetQuestions(ctx, model.Pagination{Offset: 1, Limit: &limit})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, model.QuestionID(2), got[0].ID)
	require.Equal(t, []string{"go"}, got[0].Tags)
	require.Equal(t, model.AccountID(2), got[1].AccountID)

	// no limit is bound as NULL
	mock.ExpectQuery(`SELECT id, title, content, tags, account_id FROM questions ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(nil, int64(0)).
		WillReturnRows(pgxmock.NewRows(questionColumns))
	got, err = r.GetQuestions(ctx, model.Pagination{})
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionRepo_GetQuestion(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, title, content, tags, account_id FROM questions WHERE id = \$1`).
		WithArgs(int32(5)).
		WillReturnRows(pgxmock.NewRows(questionColumns).AddRow(int32(5), "t", "c", []string{"a", "b"}, int32(9)))
	q, err := r.GetQuestion(ctx, 5)
	require.NoError(t, err)
	require.Equal(t, model.Question{ID: 5, Title: "t", Content: "c", Tags: []string{"a", "b"}, AccountID: 9}, q)

	mock.ExpectQuery(`SELECT id, title, content, tags, account_id FROM questions WHERE id = \$1`).
		WithArgs(int32(6)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetQuestion(ctx, 6)
	require.ErrorIs(t, err, errs.ErrNotFound)

	mock.ExpectQuery(`SELECT id, title, content, tags, account_id FROM questions WHERE id = \$1`).
		WithArgs(int32(7)).
		WillReturnError(errors.New("conn reset"))
	_, err = r.GetQuestion(ctx, 7)
	require.ErrorIs(t, err, errs.ErrDatabase)
}

func TestQuestionRepo_AddQuestion(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()
	in := model.Question{Title: "How?", Content: "Like this", Tags: []string{"faq"}}

	mock.ExpectQuery(`INSERT INTO questions \(title, content, tags, account_id\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, title, content, tags, account_id`).
		WithArgs("How?", "Like this", []string{"faq"}, int32(3)).
		WillReturnRows(pgxmock.NewRows(questionColumns).AddRow(int32(11), "How?", "Like this", []string{"faq"}, int32(3)))
	q, err := r.AddQuestion(ctx, 3, in)
	require.NoError(t, err)
	require.Equal(t, model.QuestionID(11), q.ID)
	require.Equal(t, model.AccountID(3), q.AccountID)

	mock.ExpectQuery(`INSERT INTO questions`).
		WithArgs("How?", "Like this", []string{"faq"}, int32(3)).
		WillReturnError(&pgconn.PgError{Code: errs.CheckViolation})
	_, err = r.AddQuestion(ctx, 3, in)
	var dbErr *errs.DatabaseError
	require.True(t, errors.As(err, &dbErr))
	require.Equal(t, errs.CheckViolation, dbErr.Code())
}

func TestQuestionRepo_IsQuestionOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		mock.ExpectQuery(`SELECT account_id FROM questions WHERE id = \$1`).
			WithArgs(int32(1)).
			WillReturnRows(pgxmock.NewRows([]string{"account_id"}).AddRow(int32(4)))
	}
	ok, err := r.IsQuestionOwner(ctx, 1, 4)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = r.IsQuestionOwner(ctx, 1, 5)
	require.NoError(t, err)
	require.False(t, ok)

	mock.ExpectQuery(`SELECT account_id FROM questions WHERE id = \$1`).
		WithArgs(int32(2)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.IsQuestionOwner(ctx, 2, 4)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestQuestionRepo_UpdateQuestion_FiltersByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()
	in := model.Question{Title: "new", Content: "body", Tags: []string{"x"}}

	mock.ExpectQuery(`UPDATE questions SET title = \$1, content = \$2, tags = \$3 WHERE id = \$4 AND account_id = \$5 RETURNING id, title, content, tags, account_id`).
		WithArgs("new", "body", []string{"x"}, int32(1), int32(4)).
		WillReturnRows(pgxmock.NewRows(questionColumns).AddRow(int32(1), "new", "body", []string{"x"}, int32(4)))
	q, err := r.UpdateQuestion(ctx, 4, in, 1)
	require.NoError(t, err)
	require.Equal(t, "new", q.Title)

	// a foreign owner matches no row
	mock.ExpectQuery(`UPDATE questions`).
		WithArgs("new", "body", []string{"x"}, int32(1), int32(5)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.UpdateQuestion(ctx, 5, in, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestQuestionRepo_DeleteQuestion(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewQuestionRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM questions WHERE id = \$1 AND account_id = \$2`).
		WithArgs(int32(1), int32(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	ok, err := r.DeleteQuestion(ctx, 4, 1)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(`DELETE FROM questions WHERE id = \$1 AND account_id = \$2`).
		WithArgs(int32(1), int32(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	ok, err = r.DeleteQuestion(ctx, 5, 1)
	require.NoError(t, err)
	require.False(t, ok)

	mock.ExpectExec(`DELETE FROM questions`).
		WithArgs(int32(1), int32(4)).
		WillReturnError(context.DeadlineExceeded)
	_, err = r.DeleteQuestion(ctx, 4, 1)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, errs.ErrDatabase)
}
