package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heypico/waypoint/internal/server/handlers"
	servermw "github.com/heypico/waypoint/internal/server/middleware"
)

// registerRoutes wires the full route table. Operational endpoints stay
// outside the admission gate so monitoring keeps working while clients are
// being throttled; everything under /api is admission-controlled.
func (s *Server) registerRoutes() {
	api := handlers.NewAPI(s.deps.Config, s.deps.LLM, s.deps.Maps, s.deps.Logger)

	health := handlers.NewHealthManager(s.deps.Version)
	health.RegisterChecker("llm", s.deps.LLM)
	health.RegisterChecker("maps", s.deps.Maps)

	s.router.Get("/", handlers.RootHandler)
	s.router.Get("/health", health.HealthHandler)
	s.router.Get("/health/live", health.LivenessHandler)
	s.router.Get("/version", handlers.VersionHandler)
	s.router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Use(servermw.RateLimit(s.deps.Admission, s.deps.Logger))

		r.Post("/chat", api.Chat)
		r.Get("/chat/health", api.ChatHealth)

		r.Route("/maps", func(r chi.Router) {
			r.Get("/places/search", api.PlacesSearch)
			r.Get("/places/{placeID}", api.PlaceDetails)
			r.Get("/directions", api.Directions)
			r.Get("/geocode", api.Geocode)
			r.Get("/config", api.MapsFrontendConfig)
			r.Get("/photo", api.Photo)
		})
	})
}

// writeErrorJSON is the router-level failure envelope for 404/405, matching
// the handler package's shape.
func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
