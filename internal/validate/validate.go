// Package validate sanitizes and bounds-checks user-supplied request input
// before it reaches the LLM or the mapping provider.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

const (
	MaxMessageLen  = 1000
	MaxLocationLen = 200
	MaxQueryLen    = 500
	MaxAddressLen  = 500
	MinAddressLen  = 3

	MinRadiusMeters = 100
	MaxRadiusMeters = 50000
)

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = errors.New("message too long")
	ErrEmptyQuery     = errors.New("query cannot be empty")
	ErrQueryTooLong   = errors.New("query too long")
	ErrAddressLength  = errors.New("address must be between 3 and 500 characters")
	ErrInvalidCoords  = errors.New("coordinates out of range")
	ErrInvalidRadius  = errors.New("radius must be between 100 and 50000 meters")
	ErrInvalidPlaceID = errors.New("invalid place ID format")
)

var (
	htmlTagRE = regexp.MustCompile(`<[^>]+>`)
	placeIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// allowedPlaceTypes mirrors the provider's place type vocabulary. Unknown
// types are dropped rather than rejected.
var allowedPlaceTypes = map[string]struct{}{
	"restaurant": {}, "cafe": {}, "bar": {}, "food": {}, "lodging": {},
	"hotel": {}, "parking": {}, "gas_station": {}, "shopping_mall": {},
	"store": {}, "tourist_attraction": {}, "museum": {}, "park": {},
	"hospital": {}, "pharmacy": {}, "bank": {}, "atm": {}, "airport": {},
	"train_station": {}, "bus_station": {}, "subway_station": {},
	"point_of_interest": {},
}

var allowedTravelModes = map[string]struct{}{
	"driving": {}, "walking": {}, "bicycling": {}, "transit": {},
}

// stripTags removes anything that looks like markup.
func stripTags(s string) string {
	return strings.TrimSpace(htmlTagRE.ReplaceAllString(s, ""))
}

// Message sanitizes a chat message and enforces length bounds.
func Message(s string) (string, error) {
	if len(s) > MaxMessageLen {
		return "", ErrMessageTooLong
	}
	s = stripTags(s)
	if s == "" {
		return "", ErrEmptyMessage
	}
	return s, nil
}

// Location sanitizes an optional free-form location hint. Empty input is
// valid and returns "".
func Location(s string) string {
	if len(s) > MaxLocationLen {
		s = s[:MaxLocationLen]
	}
	return stripTags(s)
}

// Query sanitizes a place search query.
func Query(s string) (string, error) {
	if len(s) > MaxQueryLen {
		return "", ErrQueryTooLong
	}
	s = stripTags(s)
	if s == "" {
		return "", ErrEmptyQuery
	}
	return s, nil
}

// Address sanitizes a geocoding address.
func Address(s string) (string, error) {
	if len(s) > MaxAddressLen {
		return "", ErrAddressLength
	}
	s = stripTags(s)
	if len(s) < MinAddressLen {
		return "", ErrAddressLength
	}
	return s, nil
}

// Coordinates reports whether lat/lng are in range.
func Coordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Radius checks a search radius in meters.
func Radius(r int) error {
	if r < MinRadiusMeters || r > MaxRadiusMeters {
		return ErrInvalidRadius
	}
	return nil
}

// PlaceID checks the provider place identifier charset and length.
func PlaceID(s string) error {
	s = strings.TrimSpace(s)
	if len(s) < 10 || len(s) > 300 || !placeIDRE.MatchString(s) {
		return ErrInvalidPlaceID
	}
	return nil
}

// PlaceType lowercases and filters a place type against the allowed set.
// Unknown types return "" so callers simply omit the filter.
func PlaceType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := allowedPlaceTypes[s]; ok {
		return s
	}
	return ""
}

// TravelMode normalizes a directions travel mode, defaulting to driving.
func TravelMode(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := allowedTravelModes[s]; ok {
		return s
	}
	return "driving"
}

// ParseLatLng parses a "lat,lng" pair.
func ParseLatLng(s string) (lat, lng float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}

	if !Coordinates(lat, lng) {
		return 0, 0, false
	}
	return lat, lng, true
}
