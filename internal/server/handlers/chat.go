package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/heypico/waypoint/internal/llm"
	"github.com/heypico/waypoint/internal/maps"
	"github.com/heypico/waypoint/internal/validate"
)

// chatPlaceLimit caps how many places the chat reply narrates.
const chatPlaceLimit = 3

// ChatRequest is the conversational entry point payload.
type ChatRequest struct {
	Message  string            `json:"message"`
	History  []llm.Message     `json:"history,omitempty"`
	Location *maps.Coordinates `json:"location,omitempty"`
}

// ChatResponse carries the assistant reply plus any place results the
// extracted intent produced.
type ChatResponse struct {
	Success         bool              `json:"success"`
	Response        string            `json:"response"`
	IsLocationQuery bool              `json:"is_location_query"`
	SearchQuery     string            `json:"search_query,omitempty"`
	Places          []maps.Place      `json:"places,omitempty"`
	MapCenter       *maps.Coordinates `json:"map_center,omitempty"`
	QuotaRemaining  *int              `json:"quota_remaining,omitempty"`
	PlacesError     string            `json:"places_error,omitempty"`
}

// Chat handles the conversational endpoint: extract intent from the message,
// then run a place search when the intent asks for one.
func (a *API) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	message, err := validate.Message(req.Message)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	intent := a.extractIntent(r, message, req.History)
	if intent == nil {
		// Model unreachable and no keyword fallback matched. The contract
		// stays 200 so the chat UI renders the failure inline.
		writeJSON(w, http.StatusOK, ChatResponse{
			Success:  false,
			Response: "The assistant is unavailable right now, please try again shortly.",
		})
		return
	}

	if !intent.IsLocationQuery() {
		writeJSON(w, http.StatusOK, ChatResponse{
			Success:  true,
			Response: intent.ResponseText,
		})
		return
	}

	resp := ChatResponse{
		Success:         true,
		Response:        intent.ResponseText,
		IsLocationQuery: true,
		SearchQuery:     buildSearchQuery(intent),
	}

	center := a.resolveCenter(r, req.Location, intent.LocationHint)
	resp.MapCenter = &center

	result, err := a.Maps.Search(r.Context(), maps.SearchRequest{
		Query:     resp.SearchQuery,
		Location:  &center,
		PlaceType: validate.PlaceType(intent.QueryType),
	})
	if err != nil {
		// A failed search still returns the assistant text so the
		// conversation keeps flowing.
		a.Logger.Warn("place search failed during chat",
			zap.String("query", resp.SearchQuery),
			zap.Error(err))
		resp.PlacesError = searchErrorText(err)
		writeJSON(w, http.StatusOK, resp)
		return
	}

	resp.Places = result.Places
	// A pointer so a drained pool still reports quota_remaining: 0.
	resp.QuotaRemaining = &result.QuotaRemaining
	resp.Response = narratePlaces(intent.ResponseText, result.Places)

	writeJSON(w, http.StatusOK, resp)
}

// extractIntent asks the model for a structured intent, falling back to
// keyword matching when the model is unreachable.
func (a *API) extractIntent(r *http.Request, message string, history []llm.Message) *llm.Intent {
	reply, err := a.LLM.GenerateReply(r.Context(), message, history)
	if err == nil {
		return reply.Intent
	}

	a.Logger.Warn("language model unavailable, using keyword fallback", zap.Error(err))

	fallback := llm.KeywordIntent(message)
	if fallback.IsLocationQuery() {
		return fallback
	}
	return nil
}

// resolveCenter picks the map center: explicit client location first, then a
// geocoded location hint, then the configured default.
func (a *API) resolveCenter(r *http.Request, loc *maps.Coordinates, hint string) maps.Coordinates {
	if loc != nil && validate.Coordinates(loc.Lat, loc.Lng) {
		return *loc
	}

	if hint = validate.Location(hint); hint != "" {
		if geo, err := a.Maps.Geocode(r.Context(), hint); err == nil {
			return geo.Location
		}
		a.Logger.Debug("location hint did not geocode", zap.String("hint", hint))
	}

	lat, lng := a.Cfg.DefaultCoords()
	return maps.Coordinates{Lat: lat, Lng: lng}
}

// buildSearchQuery prefixes the cuisine when the model did not already fold
// it into the search query.
func buildSearchQuery(intent *llm.Intent) string {
	query := strings.TrimSpace(intent.SearchQuery)
	cuisine := strings.TrimSpace(intent.CuisineType)
	if cuisine != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(cuisine)) {
		query = cuisine + " " + query
	}
	return query
}

// narratePlaces appends the top results to the assistant text.
func narratePlaces(base string, places []maps.Place) string {
	if len(places) == 0 {
		return base + "\n\nI could not find any matching places nearby."
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n\nTop picks:")
	for i, p := range places {
		if i >= chatPlaceLimit {
			break
		}
		b.WriteString("\n")
		b.WriteString(p.Name)
		if p.Rating > 0 {
			b.WriteString(" (")
			b.WriteString(strconv.FormatFloat(p.Rating, 'f', -1, 64))
			b.WriteString("★)")
		}
		if p.Address != "" {
			b.WriteString(" - ")
			b.WriteString(p.Address)
		}
	}
	return b.String()
}

func searchErrorText(err error) string {
	if errors.Is(err, maps.ErrQuotaExhausted) {
		return "place search quota exhausted"
	}
	return "place search unavailable"
}

// ChatHealth reports whether the language model backend is reachable.
func (a *API) ChatHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.LLM.CheckHealth(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"model":  a.LLM.Model,
	})
}
