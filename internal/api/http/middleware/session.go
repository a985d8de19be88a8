package middleware

import (
	"net/http"
	"strings"

	"github.com/dtroode/keepsake-server/internal/model"
)

// Session copies a bearer token from the Authorization header into the
// request context. Requests without one pass through unchanged.
func Session(contextManager model.ContextManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
				r = r.WithContext(contextManager.SetSessionToContext(r.Context(), token))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
