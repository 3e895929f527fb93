package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/repository/memory"
)

func newAnswerFixture(t *testing.T, c Censorer) (*AnswerServiceImpl, model.Question) {
	t.Helper()
	store := memory.New()
	q, err := store.AddQuestion(context.Background(), 1, model.Question{Title: "t", Content: "c"})
	require.NoError(t, err)
	return NewAnswerService(store, store, c), q
}

func TestAnswers_AddAnswer_AnyAccountMayAnswer(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, q := newAnswerFixture(t, &fakeCensor{})

	a, err := s.AddAnswer(ctx, 2, q.ID, "shit happens")
	require.NoError(t, err)
	require.Equal(t, "**** happens", a.Content)
	require.Equal(t, model.AccountID(2), a.AccountID)
	require.Equal(t, q.ID, a.QuestionID)

	list, err := s.GetAnswers(ctx, q.ID, model.Pagination{})
	require.NoError(t, err)
	require.Equal(t, []model.Answer{a}, list)
}

func TestAnswers_AddAnswer_MissingQuestion(t *testing.T) {
	t.Parallel()
	c := &fakeCensor{}
	s, _ := newAnswerFixture(t, c)

	_, err := s.AddAnswer(context.Background(), 2, 404, "hello")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Zero(t, c.calls.Load())

	_, err = s.GetAnswers(context.Background(), 404, model.Pagination{})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAnswers_AddAnswer_CensorFailure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("censor down")
	s, q := newAnswerFixture(t, &fakeCensor{failOn: "x", err: boom})

	_, err := s.AddAnswer(ctx, 2, q.ID, "x")
	require.ErrorIs(t, err, boom)

	list, err := s.GetAnswers(ctx, q.ID, model.Pagination{})
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = s.AddAnswer(ctx, 2, q.ID, "  ")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAnswers_UpdateDelete_OwnerOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, q := newAnswerFixture(t, &fakeCensor{})

	a, err := s.AddAnswer(ctx, 2, q.ID, "first")
	require.NoError(t, err)

	// the question owner does not own the answer
	_, err = s.UpdateAnswer(ctx, 1, a.ID, "edited")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = s.UpdateAnswer(ctx, 2, 999, "edited")
	require.ErrorIs(t, err, errs.ErrNotFound)

	upd, err := s.UpdateAnswer(ctx, 2, a.ID, "edited shit")
	require.NoError(t, err)
	require.Equal(t, "edited ****", upd.Content)

	require.ErrorIs(t, s.DeleteAnswer(ctx, 1, a.ID), errs.ErrUnauthorized)
	require.NoError(t, s.DeleteAnswer(ctx, 2, a.ID))
	require.ErrorIs(t, s.DeleteAnswer(ctx, 2, a.ID), errs.ErrNotFound)
}
