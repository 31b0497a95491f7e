package handler

import (
	"net/http"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/config"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter binds every route of the API to h.
func NewRouter(h *Handler, cfg config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger)
	r.Use(CORS(cfg.CORS))
	r.Use(RateLimit(cfg.RateLimit))

	r.Get("/", HealthCheck)

	r.Post("/getToken", h.IssueToken)
	r.Post("/create-user", h.CreateUser)

	r.Post("/create-event", h.CreateEvent)
	r.Patch("/update-event/{id}", h.UpdateEvent)
	r.Delete("/delete-event/{id}", h.DeleteEvent)
	r.Get("/event-details/{id}", h.EventDetails)
	r.Get("/upcoming-events", h.UpcomingEvents)
	r.Get("/active-events", h.ActiveEvents)

	r.Post("/create-join", h.CreateJoin)
	r.Get("/event-joins/{id}", h.EventJoins)
	r.Delete("/delete-join", h.DeleteJoin)

	// Callers may only read their own events and joins.
	r.Group(func(r chi.Router) {
		r.Use(RequireIdentity(h.tokens))
		r.Get("/my-events", h.MyEvents)
		r.Get("/my-joins", h.MyJoins)
	})

	return r
}
