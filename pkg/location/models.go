package location

import (
	"errors"
	"fmt"

	"places/internal/models"
)

var ErrNoCoordinates = errors.New("feature has no coordinate pair")

// FeatureCollection is the GeoJSON-like answer of an address search.
// Features are ranked; the first one is the best match.
type FeatureCollection struct {
	Type     string    `json:"type,omitempty"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type,omitempty"`
	Properties Properties `json:"properties"`
	Geometry   Geometry   `json:"geometry"`
}

type Properties struct {
	Label string  `json:"label,omitempty"`
	Name  string  `json:"name,omitempty"`
	City  string  `json:"city,omitempty"`
	Type  string  `json:"type,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Geometry holds a point in GeoJSON axis order: [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type,omitempty"`
	Coordinates []float64 `json:"coordinates"`
}

// DisplayName is the city when the feature has one, otherwise its label or name.
func (f Feature) DisplayName() string {
	switch {
	case f.Properties.City != "":
		return f.Properties.City
	case f.Properties.Label != "":
		return f.Properties.Label
	default:
		return f.Properties.Name
	}
}

// Coordinate converts the [lon, lat] pair into a latitude/longitude value.
func (f Feature) Coordinate() (models.Coordinate, error) {
	if len(f.Geometry.Coordinates) < 2 {
		return models.Coordinate{}, fmt.Errorf("%w: %v", ErrNoCoordinates, f.Geometry.Coordinates)
	}
	return models.Coordinate{
		Latitude:  f.Geometry.Coordinates[1],
		Longitude: f.Geometry.Coordinates[0],
	}, nil
}
