package censor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

var errBodyNotReplayable = errors.New("censor: request body cannot be replayed")

// retryTransport re-sends a request on transport failures and on transient
// statuses (408, 429, 5xx) with capped exponential backoff. The response of the
// final attempt is returned as-is so the caller can classify its status.
type retryTransport struct {
	next        http.RoundTripper
	maxAttempts int
	base        time.Duration
	cap         time.Duration
	log         *zap.Logger
}

// backoff returns a fresh policy; the go-retry backoffs are stateful.
func (t *retryTransport) backoff() retry.Backoff {
	b := retry.NewExponential(t.base)
	b = retry.WithCappedDuration(t.cap, b)
	return retry.WithMaxRetries(uint64(t.maxAttempts-1), b)
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := 0
	return retry.DoValue(req.Context(), t.backoff(), func(ctx context.Context) (*http.Response, error) {
		attempt++
		r, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := t.next.RoundTrip(r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			t.log.Warn("censor request failed",
				zap.Int("attempt", attempt),
				zap.Bool("will_retry", attempt < t.maxAttempts),
				zap.Error(err))
			return nil, retry.RetryableError(err)
		}

		if transientStatus(resp.StatusCode) && attempt < t.maxAttempts {
			drain(resp)
			t.log.Warn("censor request got transient status",
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode))
			return nil, retry.RetryableError(fmt.Errorf("transient status %d", resp.StatusCode))
		}
		return resp, nil
	})
}

func transientStatus(code int) bool {
	return code == http.StatusRequestTimeout ||
		code == http.StatusTooManyRequests ||
		code >= http.StatusInternalServerError
}

// rewind prepares req for the given attempt, restoring the body from GetBody after the first.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 1 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errBodyNotReplayable
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	r := req.Clone(req.Context())
	r.Body = body
	return r, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
	_ = resp.Body.Close()
}
