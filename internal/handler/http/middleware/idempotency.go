package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"github.com/paydesk/payroll-console/internal/pkg/idempotency"
)

type recordingWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *recordingWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotent replays the stored answer of a request already made with the same
// Idempotency-Key. Requests without the header pass through untouched. Only 2xx
// answers are stored; a failed attempt releases the key so the client may retry.
func Idempotent(store *idempotency.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientKey := r.Header.Get(idempotency.Header)
			if clientKey == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			var userID string
			if sess, err := auth.SessionFromContext(r.Context()); err == nil {
				userID = sess.UserID
			}
			key := idempotency.Key(r.Method+" "+r.URL.Path, userID, clientKey)

			stored, err := store.Lookup(r.Context(), key)
			if err != nil {
				slog.Error("idempotency lookup failed", "key", key, "error", err)
				response.InternalServerError(w, "Failed to check idempotency key")
				return
			}
			if stored != nil {
				w.Header().Set("Content-Type", stored.ContentType)
				w.Header().Set("Idempotent-Replayed", "true")
				w.WriteHeader(stored.Status)
				w.Write(stored.Body)
				return
			}

			if err := store.Acquire(r.Context(), key); err != nil {
				response.HandleError(w, err)
				return
			}

			rec := &recordingWriter{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// the handler has answered; keep the key bookkeeping out of a cancelled request context
			ctx := context.WithoutCancel(r.Context())
			if rec.status >= 200 && rec.status < 300 {
				err = store.Complete(ctx, key, idempotency.Response{
					Status:      rec.status,
					ContentType: rec.Header().Get("Content-Type"),
					Body:        rec.body.Bytes(),
				})
			} else {
				err = store.Release(ctx, key)
			}
			if err != nil {
				slog.Warn("idempotency bookkeeping failed", "key", key, "error", err)
			}
		})
	}
}
