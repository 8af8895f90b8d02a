package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: this package wires routes/middleware
// and delegates to the Server handlers, which in turn delegate to the app
// services.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint for infra checks; not part of the v1 API surface.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/centers/{centerID}/delivery-trips", func(r chi.Router) {
			r.Post("/plan", s.PlanTrips)
			r.Get("/", s.ListTrips)
		})
		r.Route("/delivery-trips/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Patch("/stops/{seq}", s.UpdateStopStatus)
			r.Post("/stage", s.AdvanceTripStage)
		})
	})
	return r
}
