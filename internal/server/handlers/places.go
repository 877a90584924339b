package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/heypico/waypoint/internal/maps"
	"github.com/heypico/waypoint/internal/validate"
)

// PlacesSearch handles GET /api/maps/places/search.
//
// Query parameters: query (required), location ("lat,lng"), radius (meters),
// type (provider place type).
func (a *API) PlacesSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query, err := validate.Query(q.Get("query"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := maps.SearchRequest{
		Query:     query,
		PlaceType: validate.PlaceType(q.Get("type")),
	}

	if loc := q.Get("location"); loc != "" {
		lat, lng, ok := validate.ParseLatLng(loc)
		if !ok {
			writeError(w, http.StatusBadRequest, "location must be \"lat,lng\"")
			return
		}
		req.Location = &maps.Coordinates{Lat: lat, Lng: lng}
	}

	if raw := q.Get("radius"); raw != "" {
		radius, convErr := strconv.Atoi(raw)
		if convErr != nil {
			writeError(w, http.StatusBadRequest, "radius must be an integer")
			return
		}
		if err := validate.Radius(radius); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		req.Radius = radius
	}

	result, err := a.Maps.Search(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"places":          result.Places,
		"count":           len(result.Places),
		"quota_remaining": result.QuotaRemaining,
		"from_cache":      result.FromCache,
	})
}

// PlaceDetails handles GET /api/maps/places/{placeID}.
func (a *API) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "placeID")
	if err := validate.PlaceID(placeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := a.Maps.Details(r.Context(), placeID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"place":   details,
	})
}
