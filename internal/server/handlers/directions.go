package handlers

import (
	"net/http"

	"github.com/heypico/waypoint/internal/maps"
	"github.com/heypico/waypoint/internal/validate"
)

// Directions handles GET /api/maps/directions.
//
// Query parameters: origin and destination (required, "lat,lng" or an
// address, which is geocoded first), mode (driving/walking/bicycling/
// transit, default driving).
func (a *API) Directions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	origin, err := a.resolveEndpoint(r, q.Get("origin"))
	if err != nil {
		writeEndpointError(w, "origin", err)
		return
	}
	destination, err := a.resolveEndpoint(r, q.Get("destination"))
	if err != nil {
		writeEndpointError(w, "destination", err)
		return
	}
	mode := validate.TravelMode(q.Get("mode"))

	route, err := a.Maps.Directions(r.Context(), origin, destination, mode)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"route":   route,
		"mode":    mode,
	})
}

// resolveEndpoint turns a route endpoint parameter into coordinates: either
// a literal "lat,lng" pair or an address that geocodes to one.
func (a *API) resolveEndpoint(r *http.Request, raw string) (maps.Coordinates, error) {
	if lat, lng, ok := validate.ParseLatLng(raw); ok {
		return maps.Coordinates{Lat: lat, Lng: lng}, nil
	}

	address, err := validate.Address(raw)
	if err != nil {
		return maps.Coordinates{}, err
	}

	geo, err := a.Maps.Geocode(r.Context(), address)
	if err != nil {
		return maps.Coordinates{}, err
	}
	return geo.Location, nil
}

// writeEndpointError reports a failed endpoint resolution: invalid input is
// the client's fault, anything else keeps its domain status (quota, provider).
func writeEndpointError(w http.ResponseWriter, name string, err error) {
	if isValidationError(err) {
		writeError(w, http.StatusBadRequest, name+": "+err.Error())
		return
	}
	writeDomainError(w, err)
}
