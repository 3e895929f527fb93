// Package client is a typed HTTP client for the question and answer API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/and161185/qna/internal/convert"
	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
	"github.com/and161185/qna/internal/pagination"
)

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Message)
}

// Is lets callers match replies against the shared sentinels.
func (e *APIError) Is(target error) bool {
	switch e.Status {
	case http.StatusNotFound:
		return target == errs.ErrNotFound
	case http.StatusUnauthorized:
		return target == errs.ErrUnauthorized
	case http.StatusTooManyRequests:
		return target == errs.ErrRateLimited
	case http.StatusUnprocessableEntity:
		return target == errs.ErrValidation
	}
	return false
}

// Client talks to one server. It is safe for concurrent use.
type Client struct {
	base  *url.URL
	hc    *http.Client
	token string
}

// New parses baseURL; a nil hc means http.DefaultClient.
func New(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bad server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bad server url %q: scheme must be http or https", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{base: u, hc: hc}, nil
}

// WithToken returns a copy that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := *c.base
	u.Path += path
	u.RawQuery = query.Encode()

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e convert.Error
		if json.Unmarshal(raw, &e) != nil || e.Error == "" {
			e.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func pageQuery(p model.Pagination) url.Values {
	q := url.Values{}
	if p.Offset > 0 {
		q.Set(pagination.ParamOffset, strconv.FormatInt(p.Offset, 10))
	}
	if p.Limit != nil {
		q.Set(pagination.ParamLimit, strconv.FormatInt(*p.Limit, 10))
	}
	return q
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/register", nil, convert.Credentials{Email: email, Password: password}, nil)
}

// Login returns a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var token string
	if err := c.do(ctx, http.MethodPost, "/login", nil, convert.Credentials{Email: email, Password: password}, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("server returned an empty token")
	}
	return token, nil
}

func (c *Client) Questions(ctx context.Context, p model.Pagination) ([]model.Question, error) {
	var out []convert.Question
	if err := c.do(ctx, http.MethodGet, "/questions", pageQuery(p), nil, &out); err != nil {
		return nil, err
	}
	qs := make([]model.Question, 0, len(out))
	for _, q := range out {
		qs = append(qs, convert.FromQuestion(q))
	}
	return qs, nil
}

func (c *Client) Question(ctx context.Context, id model.QuestionID) (model.Question, error) {
	var out convert.Question
	err := c.do(ctx, http.MethodGet, "/questions/"+id.String(), nil, nil, &out)
	return convert.FromQuestion(out), err
}

func (c *Client) AddQuestion(ctx context.Context, q model.Question) (model.Question, error) {
	var out convert.Question
	in := convert.NewQuestion{Title: q.Title, Content: q.Content, Tags: q.Tags}
	err := c.do(ctx, http.MethodPost, "/questions", nil, in, &out)
	return convert.FromQuestion(out), err
}

func (c *Client) UpdateQuestion(ctx context.Context, id model.QuestionID, q model.Question) (model.Question, error) {
	var out convert.Question
	in := convert.NewQuestion{Title: q.Title, Content: q.Content, Tags: q.Tags}
	err := c.do(ctx, http.MethodPut, "/questions/"+id.String(), nil, in, &out)
	return convert.FromQuestion(out), err
}

func (c *Client) DeleteQuestion(ctx context.Context, id model.QuestionID) error {
	return c.do(ctx, http.MethodDelete, "/questions/"+id.String(), nil, nil, nil)
}

func (c *Client) Answers(ctx context.Context, questionID model.QuestionID, p model.Pagination) ([]model.Answer, error) {
	var out []convert.Answer
	if err := c.do(ctx, http.MethodGet, "/questions/"+questionID.String()+"/answers", pageQuery(p), nil, &out); err != nil {
		return nil, err
	}
	as := make([]model.Answer, 0, len(out))
	for _, a := range out {
		as = append(as, convert.FromAnswer(a))
	}
	return as, nil
}

func (c *Client) AddAnswer(ctx context.Context, questionID model.QuestionID, content string) (model.Answer, error) {
	var out convert.Answer
	err := c.do(ctx, http.MethodPost, "/questions/"+questionID.String()+"/answers", nil, convert.NewAnswer{Content: content}, &out)
	return convert.FromAnswer(out), err
}

func (c *Client) UpdateAnswer(ctx context.Context, id model.AnswerID, content string) (model.Answer, error) {
	var out convert.Answer
	err := c.do(ctx, http.MethodPut, "/answers/"+id.String(), nil, convert.NewAnswer{Content: content}, &out)
	return convert.FromAnswer(out), err
}

func (c *Client) DeleteAnswer(ctx context.Context, id model.AnswerID) error {
	return c.do(ctx, http.MethodDelete, "/answers/"+id.String(), nil, nil, nil)
}

// Health returns nil when the server and its store are up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}
