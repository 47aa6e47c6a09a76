package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/authz"
)

// RequirePermission checks the session role against the casbin policy.
func RequirePermission(authorizer *authz.Authorizer, permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := auth.SessionFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			allowed, err := authorizer.Can(sess.Role, permission)
			if err != nil {
				slog.Error("permission check failed", "role", sess.Role, "permission", permission, "error", err)
				response.InternalServerError(w, "Permission check failed")
				return
			}
			if !allowed {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, sess.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
