package middleware

import (
	"context"

	"github.com/angelmondragon/bazaar-backend/pkg/auth"
	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
)

type contextKey string

const ctxCaller contextKey = "caller"

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (auth.Caller, bool) {
	if ctx == nil {
		return auth.Caller{}, false
	}
	c, ok := ctx.Value(ctxCaller).(auth.Caller)
	return c, ok
}

// WithCaller injects the caller into the context. Used by Auth and by handler tests.
func WithCaller(ctx context.Context, caller auth.Caller) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCaller, caller)
}

// LangFromContext returns the language resolved by the Language middleware.
func LangFromContext(ctx context.Context) i18n.Lang {
	return i18n.FromContext(ctx)
}

func WithLang(ctx context.Context, lang i18n.Lang) context.Context {
	return i18n.WithLang(ctx, lang)
}
