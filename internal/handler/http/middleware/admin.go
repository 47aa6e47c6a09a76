package middleware

import (
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
)

func SuperAdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := auth.SessionFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if sess.Role != user.RoleSuperAdmin {
			response.HandleError(w, user.ErrInsufficientPermissions)
			return
		}

		next.ServeHTTP(w, r)
	})
}
