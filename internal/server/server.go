package server

import (
	"net/http"

	"budgetflow/internal/auth"
	"budgetflow/internal/ledger"
	"budgetflow/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Server exposes the ledger operations over a JSON HTTP API. Every
// mutating route sits behind the bearer-token middleware, which is where
// the "verified caller identity" each operation requires comes from.
type Server struct {
	ledger   *ledger.Service
	verifier *auth.Verifier
}

// New creates a new API server.
func New(svc *ledger.Service, verifier *auth.Verifier) *Server {
	return &Server{
		ledger:   svc,
		verifier: verifier,
	}
}

// Routes builds the full router, middleware included.
func (s *Server) Routes(lg zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Requests(lg))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.verifier.Middleware())

		r.Post("/organizations", s.handleInitialize)
		r.Route("/organizations/{org}", func(r chi.Router) {
			r.Get("/", s.handleGetOrganization)
			r.Put("/budget", s.handleSetBudget)
			r.Get("/notifications", s.handleListNotifications)

			r.Post("/departments", s.handleCreateDepartment)
			r.Get("/departments", s.handleListDepartments)
			r.Route("/departments/{name}", func(r chi.Router) {
				r.Get("/", s.handleGetDepartment)

				r.Post("/payments", s.handleSchedulePayment)
				r.Get("/payments", s.handleListPayments)
				r.Route("/payments/{id}", func(r chi.Router) {
					r.Get("/", s.handleGetPayment)
					r.Post("/execute", s.handleExecutePayment)
					r.Get("/notification", s.handleGetNotification)
					r.Post("/notification/read", s.handleMarkNotificationRead)
				})
			})
		})
	})

	return r
}
