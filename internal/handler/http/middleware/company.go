package middleware

import (
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/user"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
)

// RequireCompany rejects requests made outside any company scope, as by a super
// admin who has not selected a company yet.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.CompanyScope(r.Context()) == "" {
			response.HandleError(w, user.ErrCompanyIDRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
