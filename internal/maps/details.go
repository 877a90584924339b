package maps

import (
	"context"
	"fmt"
	"net/url"
)

const detailsFields = "place_id,name,formatted_address,formatted_phone_number," +
	"website,geometry,rating,user_ratings_total,price_level," +
	"opening_hours,reviews,photos,types,url"

const (
	maxDetailPhotos  = 5
	maxDetailReviews = 3
)

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Result       struct {
		PlaceID              string   `json:"place_id"`
		Name                 string   `json:"name"`
		FormattedAddress     string   `json:"formatted_address"`
		FormattedPhoneNumber string   `json:"formatted_phone_number"`
		Website              string   `json:"website"`
		Rating               float64  `json:"rating"`
		UserRatingsTotal     int      `json:"user_ratings_total"`
		PriceLevel           int      `json:"price_level"`
		Types                []string `json:"types"`
		URL                  string   `json:"url"`
		Geometry             struct {
			Location Coordinates `json:"location"`
		} `json:"geometry"`
		OpeningHours *struct {
			OpenNow     *bool    `json:"open_now"`
			WeekdayText []string `json:"weekday_text"`
		} `json:"opening_hours"`
		Reviews []struct {
			AuthorName string  `json:"author_name"`
			Rating     float64 `json:"rating"`
			Text       string  `json:"text"`
			Time       int64   `json:"time"`
		} `json:"reviews"`
		Photos []struct {
			PhotoReference string `json:"photo_reference"`
		} `json:"photos"`
	} `json:"result"`
}

// Details fetches the full detail record for a place ID.
func (c *Client) Details(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if c == nil {
		return nil, fmt.Errorf("maps client is not configured")
	}

	if err := c.reserve(CategoryPlacesDetails); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var parsed detailsResponse
	if err := c.get(ctx, CategoryPlacesDetails, "/place/details/json", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status == "NOT_FOUND" || parsed.Status == "ZERO_RESULTS" {
		return nil, ErrNotFound
	}
	if err := checkStatus(parsed.Status, parsed.ErrorMessage); err != nil {
		return nil, err
	}

	result := parsed.Result
	details := &PlaceDetails{
		PlaceID:      result.PlaceID,
		Name:         result.Name,
		Address:      result.FormattedAddress,
		Phone:        result.FormattedPhoneNumber,
		Website:      result.Website,
		Location:     result.Geometry.Location,
		Rating:       result.Rating,
		TotalRatings: result.UserRatingsTotal,
		PriceLevel:   result.PriceLevel,
		Types:        result.Types,
		MapsURL:      result.URL,
	}
	if details.PlaceID == "" {
		details.PlaceID = placeID
	}

	if result.OpeningHours != nil {
		details.OpenNow = result.OpeningHours.OpenNow
		details.OpeningHours = result.OpeningHours.WeekdayText
	}

	for i, review := range result.Reviews {
		if i >= maxDetailReviews {
			break
		}
		details.Reviews = append(details.Reviews, Review{
			Author: review.AuthorName,
			Rating: review.Rating,
			Text:   review.Text,
			Time:   review.Time,
		})
	}

	for i, photo := range result.Photos {
		if i >= maxDetailPhotos {
			break
		}
		if photo.PhotoReference != "" {
			details.Photos = append(details.Photos, c.PhotoURL(photo.PhotoReference, 400))
		}
	}

	return details, nil
}
