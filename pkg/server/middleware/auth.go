package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/POUPE-AI/poupeai-report-service/pkg/models/api"
)

type tokenKey struct{}

const bearerPrefix = "Bearer "

// BearerToken extracts the Authorization bearer token into the request
// context. Report routes need it to call the finance service on the caller's
// behalf, so requests without one are rejected.
func BearerToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := req.Header.Get("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(api.Problem{
				Title:  http.StatusText(http.StatusUnauthorized),
				Status: http.StatusUnauthorized,
				Detail: "a bearer access token is required",
			})
			return
		}
		token := strings.TrimSpace(header[len(bearerPrefix):])
		next.ServeHTTP(w, req.WithContext(WithToken(req.Context(), token)))
	})
}

// WithToken stores the caller's access token in ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// Token returns the caller's access token, or "" when absent.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
