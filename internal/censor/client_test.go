package censor

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/qna/internal/errs"
)

const shitResponse = `{
	"content": "a list of shit words",
	"bad_words_total": 1,
	"bad_words_list": [{"original": "shit", "word": "shit", "deviations": 0, "info": 2, "start": 10, "end": 14, "replacedLen": 4}],
	"censored_content": "a list of **** words"
}`

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := NewClient(Options{
		Endpoint:    url,
		APIKey:      "secret",
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	return c
}

func TestClient_CensorsContent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "*", r.URL.Query().Get("censor_character"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "a list of shit words", string(body))
		_, _ = w.Write([]byte(shitResponse))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	res, err := c.CheckProfanity(context.Background(), "a list of shit words")
	require.NoError(t, err)
	require.Equal(t, 1, res.BadWordsTotal)
	require.Equal(t, "shit", res.BadWords[0].Original)
	require.Equal(t, 4, res.BadWords[0].ReplacedLen)
	require.Equal(t, res.CensoredContent, res.Mask('*'))

	out, err := c.Censor(context.Background(), "a list of shit words")
	require.NoError(t, err)
	require.Equal(t, "a list of **** words", out)
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "a list of shit words", string(body), "body must be replayed")
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(shitResponse))
	}))
	defer srv.Close()

	out, err := newTestClient(t, srv.URL).Censor(context.Background(), "a list of shit words")
	require.NoError(t, err)
	require.Equal(t, "a list of **** words", out)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_GivesUpAfterThreeAttempts(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "upstream broke"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Censor(context.Background(), "text")
	require.ErrorIs(t, err, errs.ErrExternalServer)
	require.NotErrorIs(t, err, errs.ErrExternalClient)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusInternalServerError, apiErr.Status)
	require.Equal(t, "upstream broke", apiErr.Message)
	require.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Invalid authentication credentials"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Censor(context.Background(), "text")
	require.ErrorIs(t, err, errs.ErrExternalClient)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.True(t, apiErr.ClientFault())
	require.Equal(t, "Invalid authentication credentials", apiErr.Message)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_ErrorShapeOnSuccessStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message": "quota exceeded"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Censor(context.Background(), "text")
	require.ErrorIs(t, err, errs.ErrExternalServer)
}

func TestClient_UndecodableBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>nope</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Censor(context.Background(), "text")
	require.ErrorIs(t, err, errs.ErrExternalDecode)
}

type failingTransport struct{ calls atomic.Int32 }

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.calls.Add(1)
	return nil, errors.New("connection refused")
}

func TestClient_TransportFailure(t *testing.T) {
	t.Parallel()

	tr := &failingTransport{}
	c, err := NewClient(Options{
		Endpoint:    "http://censor.invalid/bad_words",
		APIKey:      "secret",
		BaseBackoff: time.Millisecond,
		Transport:   tr,
		Logger:      zaptest.NewLogger(t),
	})
	require.NoError(t, err)

	_, err = c.Censor(context.Background(), "text")
	require.ErrorIs(t, err, errs.ErrExternalTransport)
	require.Equal(t, int32(DefaultMaxAttempts), tr.calls.Load())
}

func TestClient_CanceledContextStopsRetrying(t *testing.T) {
	t.Parallel()

	tr := &failingTransport{}
	c, err := NewClient(Options{
		APIKey:      "secret",
		BaseBackoff: time.Hour,
		Transport:   tr,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = c.Censor(ctx, "text")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, int32(1), tr.calls.Load())
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Options{})
	require.Error(t, err)

	_, err = NewClient(Options{APIKey: "bad\nkey"})
	require.Error(t, err)
}

func TestNew_SelectsMode(t *testing.T) {
	t.Parallel()

	c, err := New(Config{Mode: ModeLocal, Words: []string{"shit"}}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.IsType(t, &WordList{}, c)

	c, err = New(Config{Mode: ModeRemote, Remote: Options{APIKey: "k"}}, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.IsType(t, &Client{}, c)

	_, err = New(Config{Mode: "carrier-pigeon"}, zaptest.NewLogger(t))
	require.Error(t, err)
}
