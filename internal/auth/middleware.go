// ABOUTME: Authentication middleware for the dev platform API.
// ABOUTME: Parses Bearer tokens and extracts account identity for request context.

package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const accountContextKey contextKey = "account"

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := extractAccount(r.Header.Get("Authorization"))
		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AccountFromContext(ctx context.Context) string {
	account, ok := ctx.Value(accountContextKey).(string)
	if !ok || account == "" {
		return "default"
	}
	return account
}

func extractAccount(authHeader string) string {
	if authHeader == "" {
		return "default"
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	token = strings.TrimSpace(token)

	if token == "" {
		return "default"
	}

	// "account:" prefix allows explicit account specification in tests
	if strings.HasPrefix(token, "account:") {
		return strings.TrimPrefix(token, "account:")
	}

	// All other tokens map to the same account so data persists across
	// requests regardless of token format. Fine for a dev server; a real
	// platform would validate tokens.
	return "maker@example.com"
}
