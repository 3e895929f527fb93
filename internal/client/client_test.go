package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/qna/internal/censor"
	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/limiter"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/repository/memory"
	httpserver "github.com/and161185/qna/internal/server/http"
	"github.com/and161185/qna/internal/service"
	"github.com/and161185/qna/internal/token"
)

func newServer(t *testing.T) *Client {
	t.Helper()
	store := memory.New()
	words := censor.NewWordList([]string{"shit"}, '*')
	tokens, err := token.NewManager([]byte(strings.Repeat("s", 32)), time.Hour)
	require.NoError(t, err)
	srv := httpserver.New(
		service.NewQuestionService(store, words),
		service.NewAnswerService(store, store, words),
		service.NewAuthService(store, tokens, limiter.NewMemory(limiter.DefaultPolicy)),
		tokens,
		zaptest.NewLogger(t),
		httpserver.Options{},
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL+"/", ts.Client())
	require.NoError(t, err)
	return c
}

func TestClient_EndToEnd(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	anon := newServer(t)

	require.NoError(t, anon.Health(ctx))
	require.NoError(t, anon.Register(ctx, "a@b.c", "pw"))
	require.ErrorIs(t, anon.Register(ctx, "a@b.c", "pw"), errs.ErrValidation)

	_, err := anon.Login(ctx, "a@b.c", "wrong")
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	tok, err := anon.Login(ctx, "a@b.c", "pw")
	require.NoError(t, err)
	c := anon.WithToken(tok)

	_, err = anon.AddQuestion(ctx, model.Question{Title: "t", Content: "c"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	q, err := c.AddQuestion(ctx, model.Question{Title: "oh shit", Content: "c", Tags: []string{"go"}})
	require.NoError(t, err)
	require.Equal(t, "oh ****", q.Title)
	require.Equal(t, []string{"go"}, q.Tags)

	got, err := anon.Question(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, q, got)

	limit := int64(1)
	list, err := anon.Questions(ctx, model.Pagination{Limit: &limit})
	require.NoError(t, err)
	require.Len(t, list, 1)

	q, err = c.UpdateQuestion(ctx, q.ID, model.Question{Title: "edited", Content: "c"})
	require.NoError(t, err)
	require.Equal(t, "edited", q.Title)

	a, err := c.AddAnswer(ctx, q.ID, "answer")
	require.NoError(t, err)
	a, err = c.UpdateAnswer(ctx, a.ID, "better")
	require.NoError(t, err)
	require.Equal(t, "better", a.Content)

	answers, err := anon.Answers(ctx, q.ID, model.Pagination{})
	require.NoError(t, err)
	require.Equal(t, []model.Answer{a}, answers)

	require.NoError(t, c.DeleteAnswer(ctx, a.ID))
	require.NoError(t, c.DeleteQuestion(ctx, q.ID))
	_, err = anon.Question(ctx, q.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestClient_NonJSONError(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer ts.Close()

	c, err := New(ts.URL, ts.Client())
	require.NoError(t, err)
	err = c.Health(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
	require.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_SendsBearerAndPagination(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("offset") != "2" || r.URL.Query().Get("limit") != "0" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	c, err := New(ts.URL, ts.Client())
	require.NoError(t, err)
	zero := int64(0)
	qs, err := c.WithToken("tok").Questions(context.Background(), model.Pagination{Offset: 2, Limit: &zero})
	require.NoError(t, err)
	require.Empty(t, qs)
}

func TestNew_RejectsBadURL(t *testing.T) {
	t.Parallel()
	_, err := New("localhost:8080", nil)
	require.Error(t, err)
	_, err = New("ftp://x", nil)
	require.Error(t, err)
}
