package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	usecasesafety "industriguard/internal/usecase/safety"
)

// NewRouter assembles the dashboard API: the REST endpoints plus the push
// channel at /ws.
func NewRouter(svc *usecasesafety.Service, hub *Hub) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(permissiveCORS)

	r.Route("/api", func(r chi.Router) {
		r.Post("/report", h.handleReport)
		r.Get("/alerts", h.handleListAlerts)
		r.Patch("/alerts/{id}/resolve", h.handleResolveAlert)
		r.Get("/logs", h.handleListLogs)
		r.Get("/stats", h.handleStats)
		r.Get("/trend", h.handleTrend)
		r.Get("/health", h.handleHealth)
	})

	r.Get("/ws", hub.HandleWS)

	return r
}

// permissiveCORS mirrors the original deployment, which serves browser
// dashboards from any origin.
func permissiveCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
