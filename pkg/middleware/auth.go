package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/kasir/pkg/auth"
	"github.com/shashiranjanraj/kasir/pkg/logger"
	"github.com/shashiranjanraj/kasir/pkg/response"
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	roleKey
)

// Authenticate rejects requests without a valid bearer token and stores the
// caller's account id and role on the request context.
//
// A missing token answers 401. A token that fails verification, including
// an expired one, answers 403 "Session expired".
func Authenticate(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				response.Unauthorized(w, "Unauthorized")
				return
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				if !errors.Is(err, auth.ErrTokenExpired) {
					logger.WithCtx(r.Context()).Debug("token rejected", "error", err)
				}
				response.Forbidden(w, "Session expired")
				return
			}

			ctx := WithIdentity(r.Context(), claims.AccountID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithIdentity returns ctx carrying the authenticated account.
func WithIdentity(ctx context.Context, accountID uint, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, accountID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromCtx returns the authenticated account id.
func UserIDFromCtx(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok && id != 0
}

// RoleFromCtx returns the authenticated account's role.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok && role != ""
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
