package middleware

import (
	"context"
	"net/http"

	"github.com/nukgsz/schoolsite/internal/i18n"
)

// ContextKeyLanguage is the context key for the negotiated site language.
const ContextKeyLanguage ContextKey = "language"

// Language negotiates the response language from ?lang= or Accept-Language
// and stores it in the request context. Responses vary on Accept-Language
// because public transforms localise their fields.
func Language(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := i18n.FromRequest(r)
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Set("Content-Language", string(lang))
		ctx := context.WithValue(r.Context(), ContextKeyLanguage, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetLanguage returns the language stored by Language, or negotiates it
// directly when the middleware did not run.
func GetLanguage(r *http.Request) i18n.Lang {
	if lang, ok := r.Context().Value(ContextKeyLanguage).(i18n.Lang); ok {
		return lang
	}
	return i18n.FromRequest(r)
}
