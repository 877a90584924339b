package maps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

type textSearchResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		PlaceID          string   `json:"place_id"`
		Name             string   `json:"name"`
		FormattedAddress string   `json:"formatted_address"`
		Rating           float64  `json:"rating"`
		UserRatingsTotal int      `json:"user_ratings_total"`
		PriceLevel       int      `json:"price_level"`
		Types            []string `json:"types"`
		Icon             string   `json:"icon"`
		Geometry         struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow *bool `json:"open_now"`
		} `json:"opening_hours"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"results"`
}

// Search runs a places text search, biased around req.Location when given.
// Results are truncated to the configured maximum and cached per query.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	if c == nil {
		return nil, fmt.Errorf("maps client is not configured")
	}

	cacheKey := searchCacheKey(req)
	if c.searchCache != nil {
		if places, ok := c.searchCache.Get(cacheKey); ok {
			return &SearchResult{
				Places:         places,
				QuotaRemaining: c.QuotaRemaining(CategoryPlacesSearch),
				FromCache:      true,
			}, nil
		}
	}

	if err := c.reserve(CategoryPlacesSearch); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", req.Query)
	if req.Location != nil {
		params.Set("location", req.Location.String())
		radius := req.Radius
		if radius <= 0 {
			radius = c.defaultRadius
		}
		params.Set("radius", strconv.Itoa(radius))
	}
	if req.PlaceType != "" {
		params.Set("type", req.PlaceType)
	}

	var parsed textSearchResponse
	if err := c.get(ctx, CategoryPlacesSearch, "/place/textsearch/json", params, &parsed); err != nil {
		return nil, err
	}
	if err := checkStatus(parsed.Status, parsed.ErrorMessage); err != nil {
		c.logger.Warn("places search failed",
			zap.String("status", parsed.Status),
			zap.String("query", req.Query))
		return nil, err
	}

	places := make([]Place, 0, c.maxResults)
	for _, result := range parsed.Results {
		if len(places) >= c.maxResults {
			break
		}

		place := Place{
			PlaceID:      result.PlaceID,
			Name:         result.Name,
			Address:      result.FormattedAddress,
			Location:     result.Geometry.Location,
			Rating:       result.Rating,
			TotalRatings: result.UserRatingsTotal,
			PriceLevel:   result.PriceLevel,
			Types:        result.Types,
			Icon:         result.Icon,
		}
		if place.Name == "" {
			place.Name = "Unknown"
		}
		if result.OpeningHours != nil {
			place.Open = result.OpeningHours.OpenNow
		}
		if len(result.Photos) > 0 {
			place.PhotoReference = result.Photos[0].PhotoReference
		}
		places = append(places, place)
	}

	if c.searchCache != nil {
		c.searchCache.Add(cacheKey, places)
	}

	return &SearchResult{
		Places:         places,
		QuotaRemaining: c.QuotaRemaining(CategoryPlacesSearch),
	}, nil
}

func searchCacheKey(req SearchRequest) string {
	key := req.Query + "|" + req.PlaceType
	if req.Location != nil {
		key += "|" + req.Location.String() + "|" + strconv.Itoa(req.Radius)
	}
	return key
}
