package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/bazaar-backend/pkg/i18n"
)

func TestLanguageMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		header string
		want   i18n.Lang
	}{
		{"default", "/", "", i18n.EN},
		{"header", "/", "ar-SA,ar;q=0.9", i18n.AR},
		{"query wins", "/?lang=en", "ar", i18n.EN},
		{"query arabic", "/?lang=ar", "", i18n.AR},
	}
	for _, tc := range cases {
		var got i18n.Lang
		handler := Language(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = LangFromContext(r.Context())
		}))
		req := httptest.NewRequest(http.MethodGet, tc.url, nil)
		if tc.header != "" {
			req.Header.Set("Accept-Language", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if got != tc.want {
			t.Fatalf("%s: expected %s got %s", tc.name, tc.want, got)
		}
		if rec.Header().Get("Content-Language") != tc.want.String() {
			t.Fatalf("%s: unexpected Content-Language %q", tc.name, rec.Header().Get("Content-Language"))
		}
	}
}
