package handlers

import (
	"net/http"
	"strconv"
)

// MapsFrontendConfig handles GET /api/maps/config: the API key and default
// viewport the browser map widget bootstraps from.
func (a *API) MapsFrontendConfig(w http.ResponseWriter, r *http.Request) {
	cfg := a.Maps.FrontendConfig()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"config":  cfg,
	})
}

// Photo handles GET /api/maps/photo: redirects to the provider photo URL for
// a photo reference so the backend key never reaches the browser.
func (a *API) Photo(w http.ResponseWriter, r *http.Request) {
	ref := r.URL.Query().Get("photo_reference")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "photo_reference is required")
		return
	}

	maxWidth := 0
	if raw := r.URL.Query().Get("max_width"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "max_width must be an integer")
			return
		}
		maxWidth = n
	}

	if !a.Maps.Configured() {
		writeError(w, http.StatusServiceUnavailable, "maps provider not configured")
		return
	}

	http.Redirect(w, r, a.Maps.PhotoURL(ref, maxWidth), http.StatusFound)
}
