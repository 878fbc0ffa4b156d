package middleware

import (
	"net/http"

	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
)

// Language resolves the response language from ?lang= or Accept-Language.
func Language(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := i18n.Resolve(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"))
			ctx := WithLang(r.Context(), lang)
			if logg != nil {
				ctx = logg.WithLanguage(ctx, lang.String())
			}
			w.Header().Set("Content-Language", lang.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
