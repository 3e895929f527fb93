package httpserver

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/qna/internal/censor"
	"github.com/and161185/qna/internal/errs"
	"github.com/and161185/qna/internal/model"
)

const internalMessage = "internal error"

// statusFor maps an error to the response status and a client-safe message.
func statusFor(err error) (int, string) {
	var (
		pagErr *errs.PaginationError
		apiErr *censor.APIError
		dbErr  *errs.DatabaseError
	)
	switch {
	case errors.As(err, &pagErr):
		return http.StatusBadRequest, pagErr.Error()
	case errors.Is(err, model.ErrInvalidID):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errMalformedBody):
		return http.StatusUnprocessableEntity, errMalformedBody.Error()
	case errors.Is(err, errs.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, errs.ErrNotFound.Error()
	case errors.Is(err, errs.ErrTokenExpired):
		return http.StatusUnauthorized, errs.ErrTokenExpired.Error()
	case errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized, errs.ErrInvalidToken.Error()
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized, errs.ErrUnauthorized.Error()
	case errors.Is(err, errs.ErrWrongPassword):
		return http.StatusUnauthorized, errs.ErrWrongPassword.Error()
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, errs.ErrRateLimited.Error()
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusUnprocessableEntity, errs.PgMessage(errs.UniqueViolation)
	case errors.As(err, &apiErr):
		if apiErr.Status == http.StatusRequestEntityTooLarge {
			return http.StatusRequestEntityTooLarge, apiErr.Message
		}
		return http.StatusInternalServerError, internalMessage
	case errors.As(err, &dbErr) && dbErr.Code() != "":
		return http.StatusUnprocessableEntity, errs.PgMessage(dbErr.Code())
	default:
		return http.StatusInternalServerError, internalMessage
	}
}

// writeError is the single place where failures are logged and mapped to HTTP.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	fields := []zap.Field{
		zap.Error(err),
		zap.Int("status", status),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromCtx(r.Context())),
	}
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", fields...)
	} else {
		s.log.Info("request rejected", fields...)
	}
	respondError(w, status, msg)
}
