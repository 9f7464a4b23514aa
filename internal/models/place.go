package models

// Place is a named coordinate saved by a user. ID is assigned client side and
// never leaves the process; the backend only knows places by name.
type Place struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Coordinate is a transient latitude/longitude pair in degrees, either the
// device position or a long-press target.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
