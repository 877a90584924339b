// Package maps is the Google Maps REST client: places text search, place
// details, directions and geocoding. Every outbound call is gated by the
// process-wide quota tracker before it reaches the wire.
package maps

import (
	"errors"
	"fmt"
)

// Quota categories, one pool per provider operation.
const (
	CategoryPlacesSearch  = "places-search"
	CategoryPlacesDetails = "places-details"
	CategoryDirections    = "directions"
	CategoryGeocoding     = "geocoding"
)

var (
	// ErrQuotaExhausted signals that the category's outbound budget is used
	// up; the caller must not retry until the quota period resets.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrNotFound signals the provider returned no result for the lookup.
	ErrNotFound = errors.New("not found")
)

// ProviderError is a non-OK status from the mapping provider.
type ProviderError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("maps provider: %s: %s", e.Status, e.Message)
	}
	if e.Status != "" {
		return fmt.Sprintf("maps provider: %s", e.Status)
	}
	return fmt.Sprintf("maps provider: http %d", e.StatusCode)
}

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}

// Place is one result from a text search.
type Place struct {
	PlaceID        string      `json:"place_id"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Location       Coordinates `json:"location"`
	Rating         float64     `json:"rating,omitempty"`
	TotalRatings   int         `json:"total_ratings,omitempty"`
	PriceLevel     int         `json:"price_level,omitempty"`
	Types          []string    `json:"types,omitempty"`
	Open           *bool       `json:"is_open,omitempty"`
	PhotoReference string      `json:"photo_reference,omitempty"`
	Icon           string      `json:"icon,omitempty"`
}

// Review is one provider review attached to place details.
type Review struct {
	Author string  `json:"author"`
	Rating float64 `json:"rating"`
	Text   string  `json:"text"`
	Time   int64   `json:"time"`
}

// PlaceDetails carries the full detail record for one place.
type PlaceDetails struct {
	PlaceID      string      `json:"place_id"`
	Name         string      `json:"name"`
	Address      string      `json:"address"`
	Phone        string      `json:"formatted_phone,omitempty"`
	Website      string      `json:"website,omitempty"`
	Location     Coordinates `json:"location"`
	Rating       float64     `json:"rating,omitempty"`
	TotalRatings int         `json:"total_ratings,omitempty"`
	PriceLevel   int         `json:"price_level,omitempty"`
	OpeningHours []string    `json:"opening_hours,omitempty"`
	OpenNow      *bool       `json:"open_now,omitempty"`
	Reviews      []Review    `json:"reviews,omitempty"`
	Photos       []string    `json:"photos,omitempty"`
	Types        []string    `json:"types,omitempty"`
	MapsURL      string      `json:"url,omitempty"`
}

// Step is one leg instruction in a route.
type Step struct {
	Instruction   string      `json:"instruction"`
	Distance      string      `json:"distance"`
	Duration      string      `json:"duration"`
	TravelMode    string      `json:"travel_mode"`
	StartLocation Coordinates `json:"start_location"`
	EndLocation   Coordinates `json:"end_location"`
}

// Bounds is a viewport rectangle.
type Bounds struct {
	Northeast Coordinates `json:"northeast"`
	Southwest Coordinates `json:"southwest"`
}

// Route is a directions result between two points.
type Route struct {
	Origin      Coordinates `json:"origin"`
	Destination Coordinates `json:"destination"`
	Distance    string      `json:"distance"`
	Duration    string      `json:"duration"`
	Steps       []Step      `json:"steps"`
	Polyline    string      `json:"polyline"`
	Bounds      Bounds      `json:"bounds"`
}

// Geocoded is a geocoding result.
type Geocoded struct {
	Location         Coordinates `json:"location"`
	FormattedAddress string      `json:"formatted_address"`
}

// SearchRequest describes a places text search.
type SearchRequest struct {
	Query     string
	Location  *Coordinates
	Radius    int
	PlaceType string
}

// SearchResult is the outcome of a places text search.
type SearchResult struct {
	Places         []Place
	QuotaRemaining int
	FromCache      bool
}

// FrontendConfig bootstraps the browser map widget.
type FrontendConfig struct {
	APIKey        string      `json:"api_key"`
	DefaultCenter Coordinates `json:"default_center"`
	DefaultZoom   int         `json:"default_zoom"`
}
