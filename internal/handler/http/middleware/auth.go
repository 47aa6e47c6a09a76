package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/jwt"
	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

// SessionAuthenticator loads the session named by a verified token.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, sessionID string) (*auth.Session, error)
}

// AuthRequired accepts access tokens only, loads their session and puts it in the
// request context together with the session's backend token.
func AuthRequired(sessions SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwt.TokenType(claims) != jwt.TypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			sessionID, err := jwt.SessionID(claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			sess, err := sessions.Authenticate(r.Context(), sessionID)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := auth.WithSession(r.Context(), sess)
			ctx = restclient.WithToken(ctx, sess.BackendToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// StreamAuth authenticates an EventSource request by its short-lived ?token=.
func StreamAuth(jwtService jwt.Service, sessions SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID, err := jwtService.ValidateSSEToken(r.URL.Query().Get("token"))
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			sess, err := sessions.Authenticate(r.Context(), sessionID)
			if err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), sess)))
		})
	}
}
