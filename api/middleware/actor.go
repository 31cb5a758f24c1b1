package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/orderdesk/ticketdesk-backend/api/responses"
	"github.com/orderdesk/ticketdesk-backend/pkg/enums"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

const (
	actorIDHeader   = "X-Actor-Id"
	actorRoleHeader = "X-Actor-Role"
)

type contextKey string

const (
	ctxActorID   contextKey = "actor_id"
	ctxActorRole contextKey = "actor_role"
)

// Actor pulls the acting identity from the bot-supplied headers into the
// request context. Subscriber authentication is the bots' responsibility;
// this only validates the role vocabulary.
func Actor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			actorID := strings.TrimSpace(r.Header.Get(actorIDHeader))
			rawRole := strings.TrimSpace(r.Header.Get(actorRoleHeader))

			if rawRole != "" {
				role, err := enums.ParseActorRole(rawRole)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown actor role"))
					return
				}
				ctx = context.WithValue(ctx, ctxActorRole, role.String())
				if logg != nil {
					ctx = logg.WithActorRole(ctx, role.String())
				}
			}
			if actorID != "" {
				ctx = context.WithValue(ctx, ctxActorID, actorID)
				if logg != nil {
					ctx = logg.WithActorID(ctx, actorID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithActor injects an actor identity into the context directly.
func WithActor(ctx context.Context, actorID string, role enums.ActorRole) context.Context {
	ctx = context.WithValue(ctx, ctxActorID, actorID)
	return context.WithValue(ctx, ctxActorRole, role.String())
}

// ActorIDFromContext returns the acting subscriber id, if any.
func ActorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorID).(string); ok {
		return v
	}
	return ""
}

// ActorRoleFromContext returns the acting role, if any.
func ActorRoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxActorRole).(string); ok {
		return v
	}
	return ""
}

// RequireActor rejects requests that did not supply a full actor identity.
func RequireActor(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if ActorIDFromContext(ctx) == "" || ActorRoleFromContext(ctx) == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "actor identity required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
