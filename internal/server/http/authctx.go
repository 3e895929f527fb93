package httpserver

import (
	"context"

	"github.com/and161185/qna/internal/model"
)

type ctxKey string

const (
	accountIDKey ctxKey = "qna.accountID"
	requestIDKey ctxKey = "qna.requestID"
)

// WithAccountID stores the authenticated account in context.
func WithAccountID(ctx context.Context, id model.AccountID) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

// AccountIDFromCtx fetches the authenticated account from context.
func AccountIDFromCtx(ctx context.Context) (model.AccountID, bool) {
	id, ok := ctx.Value(accountIDKey).(model.AccountID)
	return id, ok && !id.IsZero()
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx returns the id assigned by the logging middleware, or "".
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
