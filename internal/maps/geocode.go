package maps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Geocode resolves a free-form address to coordinates. Results are cached
// per normalized address.
func (c *Client) Geocode(ctx context.Context, address string) (*Geocoded, error) {
	if c == nil {
		return nil, fmt.Errorf("maps client is not configured")
	}

	cacheKey := strings.ToLower(strings.TrimSpace(address))
	if c.geocodeCache != nil {
		if hit, ok := c.geocodeCache.Get(cacheKey); ok {
			return &hit, nil
		}
	}

	if err := c.reserve(CategoryGeocoding); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("address", address)

	var parsed geocodeResponse
	if err := c.get(ctx, CategoryGeocoding, "/geocode/json", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status == "ZERO_RESULTS" || len(parsed.Results) == 0 {
		if err := checkStatus(parsed.Status, parsed.ErrorMessage); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	if err := checkStatus(parsed.Status, parsed.ErrorMessage); err != nil {
		return nil, err
	}

	result := Geocoded{
		Location:         parsed.Results[0].Geometry.Location,
		FormattedAddress: parsed.Results[0].FormattedAddress,
	}

	if c.geocodeCache != nil {
		c.geocodeCache.Add(cacheKey, result)
	}

	return &result, nil
}
