package censor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/qna/internal/errs"
)

// DefaultEndpoint is the apilayer bad-words API.
const DefaultEndpoint = "https://api.apilayer.com/bad_words"

// Client defaults.
const (
	DefaultMaxAttempts    = 3
	DefaultBaseBackoff    = 500 * time.Millisecond
	DefaultMaxBackoff     = 5 * time.Second
	DefaultAttemptTimeout = 10 * time.Second
)

const maxResponseBody = 1 << 20

// Options configure the remote Client.
type Options struct {
	Endpoint       string
	APIKey         string
	CensorChar     rune
	MaxAttempts    int
	BaseBackoff    time.Duration
	MaxBackoff     time.Duration
	AttemptTimeout time.Duration     // bounds the wait for response headers of one attempt
	Transport      http.RoundTripper // nil means a clone of http.DefaultTransport
	Logger         *zap.Logger
}

// Client calls the remote bad-words API. It is immutable after construction and
// safe for concurrent use; results are never cached.
type Client struct {
	url    string
	apiKey string
	hc     *http.Client
}

var _ Censorer = (*Client)(nil)

// NewClient validates opts and builds a Client with the retry policy installed.
func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, errors.New("censor: empty api key")
	}
	if strings.ContainsAny(opts.APIKey, "\r\n") {
		return nil, errors.New("censor: invalid api key header value")
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.CensorChar == 0 {
		opts.CensorChar = '*'
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = DefaultBaseBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = DefaultMaxBackoff
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	u, err := url.Parse(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("censor: bad endpoint: %w", err)
	}
	q := u.Query()
	q.Set("censor_character", string(opts.CensorChar))
	u.RawQuery = q.Encode()

	next := opts.Transport
	if next == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.ResponseHeaderTimeout = opts.AttemptTimeout
		next = tr
	}

	return &Client{
		url:    u.String(),
		apiKey: opts.APIKey,
		hc: &http.Client{Transport: &retryTransport{
			next:        next,
			maxAttempts: opts.MaxAttempts,
			base:        opts.BaseBackoff,
			cap:         opts.MaxBackoff,
			log:         opts.Logger.Named("censor"),
		}},
	}, nil
}

// CheckProfanity posts text to the API and returns the parsed result.
func (c *Client) CheckProfanity(ctx context.Context, text string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(text))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		return Result{}, fmt.Errorf("%w: %w", errs.ErrExternalTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return Result{}, fmt.Errorf("%w: read body: %w", errs.ErrExternalTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, newAPIError(resp.StatusCode, body)
	}
	return decodeResult(body)
}

// Censor returns the censored content computed by the API.
func (c *Client) Censor(ctx context.Context, text string) (string, error) {
	res, err := c.CheckProfanity(ctx, text)
	if err != nil {
		return "", err
	}
	return res.CensoredContent, nil
}

// APIError is a failure reported by the remote API.
// It matches errs.ErrExternalClient for 4xx statuses and errs.ErrExternalServer otherwise.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: status: %d, message: %s", e.kind, e.Status, e.Message)
}

func (e *APIError) Is(target error) bool { return target == e.kind }

// ClientFault reports whether the API rejected the request itself.
func (e *APIError) ClientFault() bool { return e.kind == errs.ErrExternalClient }

type apiMessage struct {
	Message *string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status, kind: errs.ErrExternalServer}
	if status >= 400 && status < 500 {
		e.kind = errs.ErrExternalClient
	}
	var m apiMessage
	if err := json.Unmarshal(body, &m); err == nil && m.Message != nil {
		e.Message = *m.Message
	} else {
		e.Message = http.StatusText(status)
	}
	return e
}

// decodeResult tries the success shape first, then the error shape.
func decodeResult(body []byte) (Result, error) {
	var ok struct {
		Content         *string   `json:"content"`
		BadWordsTotal   int       `json:"bad_words_total"`
		BadWords        []BadWord `json:"bad_words_list"`
		CensoredContent *string   `json:"censored_content"`
	}
	if err := json.Unmarshal(body, &ok); err == nil && ok.Content != nil && ok.CensoredContent != nil {
		return Result{
			Content:         *ok.Content,
			BadWordsTotal:   ok.BadWordsTotal,
			BadWords:        ok.BadWords,
			CensoredContent: *ok.CensoredContent,
		}, nil
	}

	var m apiMessage
	if err := json.Unmarshal(body, &m); err == nil && m.Message != nil {
		return Result{}, &APIError{Status: http.StatusOK, Message: *m.Message, kind: errs.ErrExternalServer}
	}

	return Result{}, fmt.Errorf("%w: %.64q", errs.ErrExternalDecode, body)
}
