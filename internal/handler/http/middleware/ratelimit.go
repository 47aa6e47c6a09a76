package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/paydesk/payroll-console/internal/domain/auth"
	"github.com/paydesk/payroll-console/internal/domain/qrcode"
	"github.com/paydesk/payroll-console/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// ScanLimiter throttles uploaded scan frames per session, one accepted frame per interval.
type ScanLimiter struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[string]*rate.Limiter
}

func NewScanLimiter(interval time.Duration) *ScanLimiter {
	return &ScanLimiter{
		interval: interval,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *ScanLimiter) limiter(sessionID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[sessionID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[sessionID] = lim
	}
	return lim
}

// Forget drops the limiter of a session, e.g. on logout.
func (l *ScanLimiter) Forget(sessionID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.limiters, sessionID)
}

func (l *ScanLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := auth.SessionFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !l.limiter(sess.ID).Allow() {
			response.HandleError(w, qrcode.ErrScanThrottled)
			return
		}

		next.ServeHTTP(w, r)
	})
}
