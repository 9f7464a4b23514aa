package backend

import "places/internal/models"

// Response is the envelope every backend endpoint answers with. Result is the
// success indicator: true only when the change was durably applied.
type Response struct {
	Result bool `json:"result"`
}

// PlacesResponse is returned by GET /places/{nickname}.
type PlacesResponse struct {
	Result bool           `json:"result"`
	Places []models.Place `json:"places,omitempty"`
}

// CreatePlaceRequest is the body of POST /places.
type CreatePlaceRequest struct {
	Nickname  string  `json:"nickname"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DeletePlaceRequest is the body of DELETE /places.
type DeletePlaceRequest struct {
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
}
