package location

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// nominatimResponse is shaped for the Nominatim search API response.
type nominatimResponse []struct {
	PlaceID     int64   `json:"place_id"`
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	Type        string  `json:"type"`
	Importance  float64 `json:"importance"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
	} `json:"address"`
}

// NominatimGeocoder queries OpenStreetMap Nominatim and maps its answer onto
// the same GeoJSON shape AdresseGeocoder returns.
type NominatimGeocoder struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	limit      int
}

func NewNominatimGeocoder(endpoint string, httpClient *http.Client) *NominatimGeocoder {
	if endpoint == "" {
		endpoint = NominatimSearchURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &NominatimGeocoder{
		endpoint:   endpoint,
		httpClient: httpClient,
		userAgent:  "places-client/1.0",
		limit:      5,
	}
}

func (g *NominatimGeocoder) Search(ctx context.Context, query string) (*FeatureCollection, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", strconv.Itoa(g.limit))
	params.Set("accept-language", "en")

	var results nominatimResponse
	if err := getJSON(ctx, g.httpClient, g.endpoint, params, g.userAgent, &results); err != nil {
		return nil, err
	}

	fc := &FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(results))}
	for _, r := range results {
		lat, err := strconv.ParseFloat(r.Lat, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing latitude %q of place %d: %w", r.Lat, r.PlaceID, err)
		}
		lon, err := strconv.ParseFloat(r.Lon, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing longitude %q of place %d: %w", r.Lon, r.PlaceID, err)
		}

		city := r.Address.City
		if city == "" {
			city = r.Address.Town
		}
		if city == "" {
			city = r.Address.Village
		}

		fc.Features = append(fc.Features, Feature{
			Type: "Feature",
			Properties: Properties{
				Label: r.DisplayName,
				Name:  r.Name,
				City:  city,
				Type:  r.Type,
				Score: r.Importance,
			},
			Geometry: Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
		})
	}
	return fc, nil
}
