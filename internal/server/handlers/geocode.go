package handlers

import (
	"net/http"

	"github.com/heypico/waypoint/internal/validate"
)

// Geocode handles GET /api/maps/geocode. The address query parameter is
// resolved to coordinates.
func (a *API) Geocode(w http.ResponseWriter, r *http.Request) {
	address, err := validate.Address(r.URL.Query().Get("address"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	geo, err := a.Maps.Geocode(r.Context(), address)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"location":          geo.Location,
		"formatted_address": geo.FormattedAddress,
	})
}
