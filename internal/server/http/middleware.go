package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/felixge/httpsnoop"
	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

// logging assigns a request id and writes one access log line per request.
// Only metadata is logged, never payloads.
func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			if u, err := uuid.NewV4(); err == nil {
				id = u.String()
			}
		}
		w.Header().Set("X-Request-Id", id)
		r = r.WithContext(withRequestID(r.Context(), id))

		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", m.Code),
			zap.Duration("dur", m.Duration),
			zap.Int64("bytes", m.Written),
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", id),
		)
	})
}

// recoverer turns a handler panic into a logged 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log.Error("panic",
				zap.Any("reason", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", r.URL.Path),
				zap.String("request_id", RequestIDFromCtx(r.Context())),
			)
			respondError(w, http.StatusInternalServerError, internalMessage)
		}()
		next.ServeHTTP(w, r)
	})
}

// deadline bounds every request, and with it every store and censor call.
func (s *Server) deadline(next http.Handler) http.Handler {
	if s.timeout <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var errMissingToken = fmt.Errorf("%w: missing authorization header", errs.ErrInvalidToken)

// bearerToken accepts both "Bearer <token>" and a bare token.
func bearerToken(r *http.Request) (string, error) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(h) >= len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		h = strings.TrimSpace(h[len(prefix):])
	}
	if h == "" {
		return "", errMissingToken
	}
	return h, nil
}

// requireAuth verifies the token once and stores the account id for the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sess, err := s.tokens.Verify(raw)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		next(w, r.WithContext(WithAccountID(r.Context(), sess.AccountID)))
	})
}

// accountID reads the id placed by requireAuth; missing means a routing bug.
func accountID(r *http.Request) (model.AccountID, error) {
	id, ok := AccountIDFromCtx(r.Context())
	if !ok {
		return 0, errors.New("no authenticated account in context")
	}
	return id, nil
}
