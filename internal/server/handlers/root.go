package handlers

import "net/http"

// RootHandler gives browsers a map of the API surface.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "waypoint",
		"version": AppVersion,
		"endpoints": map[string]string{
			"chat":          "POST /api/chat",
			"places_search": "GET /api/maps/places/search",
			"place_details": "GET /api/maps/places/{placeID}",
			"directions":    "GET /api/maps/directions",
			"geocode":       "GET /api/maps/geocode",
			"maps_config":   "GET /api/maps/config",
			"photo":         "GET /api/maps/photo",
			"health":        "GET /health",
			"version":       "GET /version",
			"metrics":       "GET /metrics",
		},
	})
}
