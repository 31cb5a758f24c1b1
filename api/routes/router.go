package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderdesk/ticketdesk-backend/api/controllers"
	"github.com/orderdesk/ticketdesk-backend/api/middleware"
	notificationsvc "github.com/orderdesk/ticketdesk-backend/internal/notifications"
	sessionsvc "github.com/orderdesk/ticketdesk-backend/internal/sessions"
	subscribersvc "github.com/orderdesk/ticketdesk-backend/internal/subscribers"
	ticketsvc "github.com/orderdesk/ticketdesk-backend/internal/tickets"
	"github.com/orderdesk/ticketdesk-backend/pkg/config"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           controllers.Pinger
	PubSub          controllers.Pinger
	Tickets         ticketsvc.Service
	Subscribers     subscribersvc.Repository
	Notifications   notificationsvc.Repository
	Sessions        *sessionsvc.Store
	RateLimit       middleware.RateLimiterStore
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
			"pubsub":   deps.PubSub,
		}))
	})

	if deps.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Actor(logg))

		r.Route("/tickets", func(r chi.Router) {
			r.Get("/", controllers.ListTickets(deps.Tickets, logg))
			r.Get("/{ticketID}", controllers.GetTicket(deps.Tickets, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireActor(logg))
				r.Use(middleware.RateLimit("ticket-writes", cfg.RateLimit.Window, cfg.RateLimit.WriteLimit, deps.RateLimit, logg))
				r.Post("/", controllers.CreateTicket(deps.Tickets, logg))
				r.Post("/{ticketID}/transitions", controllers.TransitionTicket(deps.Tickets, logg))
			})
		})

		r.Get("/subscribers", controllers.ListSubscribers(deps.Subscribers, logg))

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.MarkNotificationRead(deps.Notifications, logg))
		})

		r.Route("/sessions/{role}/{actorID}", func(r chi.Router) {
			r.Put("/", controllers.PutSession(deps.Sessions, logg))
			r.Get("/", controllers.GetSession(deps.Sessions, logg))
			r.Delete("/", controllers.DeleteSession(deps.Sessions, logg))
		})
	})

	return r
}
