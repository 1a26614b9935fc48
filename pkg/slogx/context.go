package slogx

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/roles/pkg/idx"
)

type ctxKey struct{}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithOpID tags the context logger with a fresh operation id so every line
// logged for one command can be correlated. The id is returned as well.
func WithOpID(ctx context.Context) (context.Context, idx.ID) {
	id := idx.New()
	l := FromContext(ctx)
	return WithContext(ctx, l.With("op_id", id.String())), id
}
