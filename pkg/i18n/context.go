package i18n

import "context"

type ctxKey struct{}

// WithLang stores the resolved response language on the context.
func WithLang(ctx context.Context, lang Lang) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the response language, falling back to Default.
func FromContext(ctx context.Context) Lang {
	if ctx == nil {
		return Default
	}
	if l, ok := ctx.Value(ctxKey{}).(Lang); ok && l.IsValid() {
		return l
	}
	return Default
}
