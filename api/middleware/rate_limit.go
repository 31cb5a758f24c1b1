package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/orderdesk/ticketdesk-backend/api/responses"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

// RateLimiterStore is the counter surface the throttle needs from redis.
type RateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	CounterKey(name string) string
}

// RateLimit throttles writes per actor id: at most limit requests inside each
// window. A nil store or non-positive limit disables the throttle, so routes
// can wire it unconditionally. Runs after RequireActor, which guarantees an
// actor id is present.
func RateLimit(name string, window time.Duration, limit int, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || limit <= 0 || window <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			actorID := ActorIDFromContext(ctx)
			if actorID == "" {
				next.ServeHTTP(w, r)
				return
			}

			key := store.CounterKey(name + ":" + actorID)
			count, err := store.IncrWithTTL(ctx, key, window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if count > int64(limit) {
				if logg != nil {
					lctx := logg.WithFields(ctx, map[string]any{
						"surface":        name,
						"attempts":       count,
						"limit":          limit,
						"window_seconds": int(window.Seconds()),
					})
					logg.Warn(lctx, "actor rate limited")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
