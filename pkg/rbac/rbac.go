// Package rbac gates routes on the role carried by the session token.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/kasir/pkg/middleware"
	"github.com/shashiranjanraj/kasir/pkg/response"
)

// Account roles.
const (
	RoleCashier = "cashier"
	RoleAdmin   = "admin"
)

// Valid reports whether role is a known account role.
func Valid(role string) bool {
	return role == RoleCashier || role == RoleAdmin
}

// HasRole allows the request through only when the caller holds one of
// roles. It must run after middleware.Authenticate.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r.Context())
			if !ok || !allowed[role] {
				response.Unauthorized(w, deniedMessage(roles))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(RoleAdmin).
func Admin(next http.Handler) http.Handler {
	return HasRole(RoleAdmin)(next)
}

func deniedMessage(roles []string) string {
	if len(roles) == 1 && roles[0] == RoleAdmin {
		return "You are not an admin"
	}
	return "You are not allowed to do this"
}
