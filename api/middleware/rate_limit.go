package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/shoplane/cartsync-backend/api/responses"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
	"github.com/shoplane/cartsync-backend/pkg/logger"
)

// RateLimiter is the counting surface the limiter needs; *redis.Client
// satisfies it.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit applies a fixed-window limit per shopper session. It must run
// after Session so the scope is the user or guest id. A nil limiter or a
// non-positive limit disables it; a limiter outage fails open.
func RateLimit(limiter RateLimiter, limit int64, window time.Duration, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || limit <= 0 || window <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			scope := "anonymous"
			if sess, ok := SessionFromContext(r.Context()); ok {
				if sess.Authenticated() {
					scope = "user:" + sess.UserID.String()
				} else if sess.GuestID != "" {
					scope = "guest:" + sess.GuestID
				}
			}

			allowed, count, err := limiter.FixedWindowAllow(r.Context(), scope, limit, window)
			if err != nil {
				if logg != nil {
					logg.Warn(r.Context(), "rate_limit.check_failed")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeRateLimit, "too many cart requests").
						WithDetails(map[string]any{"count": count, "limit": limit}))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
