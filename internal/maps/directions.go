package maps

import (
	"context"
	"fmt"
	"net/url"
)

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Bounds Bounds `json:"bounds"`
		Legs   []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
			Steps []struct {
				HTMLInstructions string `json:"html_instructions"`
				TravelMode       string `json:"travel_mode"`
				Distance         struct {
					Text string `json:"text"`
				} `json:"distance"`
				Duration struct {
					Text string `json:"text"`
				} `json:"duration"`
				StartLocation Coordinates `json:"start_location"`
				EndLocation   Coordinates `json:"end_location"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions requests a route between two points for the given travel mode.
func (c *Client) Directions(ctx context.Context, origin, destination Coordinates, mode string) (*Route, error) {
	if c == nil {
		return nil, fmt.Errorf("maps client is not configured")
	}

	if err := c.reserve(CategoryDirections); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("origin", origin.String())
	params.Set("destination", destination.String())
	params.Set("mode", mode)

	var parsed directionsResponse
	if err := c.get(ctx, CategoryDirections, "/directions/json", params, &parsed); err != nil {
		return nil, err
	}
	if parsed.Status == "NOT_FOUND" || parsed.Status == "ZERO_RESULTS" {
		return nil, ErrNotFound
	}
	if err := checkStatus(parsed.Status, parsed.ErrorMessage); err != nil {
		return nil, err
	}
	if len(parsed.Routes) == 0 || len(parsed.Routes[0].Legs) == 0 {
		return nil, ErrNotFound
	}

	route := parsed.Routes[0]
	leg := route.Legs[0]

	steps := make([]Step, 0, len(leg.Steps))
	for _, step := range leg.Steps {
		steps = append(steps, Step{
			Instruction:   step.HTMLInstructions,
			Distance:      step.Distance.Text,
			Duration:      step.Duration.Text,
			TravelMode:    step.TravelMode,
			StartLocation: step.StartLocation,
			EndLocation:   step.EndLocation,
		})
	}

	return &Route{
		Origin:      origin,
		Destination: destination,
		Distance:    leg.Distance.Text,
		Duration:    leg.Duration.Text,
		Steps:       steps,
		Polyline:    route.OverviewPolyline.Points,
		Bounds:      route.Bounds,
	}, nil
}
