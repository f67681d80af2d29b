package article

import (
	"context"

	"go.uber.org/zap"

	"github.com/SergeyParamoshkin/articles/internal/model"
)

type ctxKey int8

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyViewer
	ctxKeyPage
)

func WithLogger(ctx context.Context, l *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, l)
}

// LoggerFrom returns the request-scoped logger, or nil.
func LoggerFrom(ctx context.Context) *zap.SugaredLogger {
	l, _ := ctx.Value(ctxKeyLogger).(*zap.SugaredLogger)
	return l
}

func WithViewer(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, ctxKeyViewer, u)
}

// ViewerFrom returns the authenticated caller, or nil for anonymous requests.
func ViewerFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKeyViewer).(*model.User)
	return u
}
