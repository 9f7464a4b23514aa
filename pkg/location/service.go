// Package location resolves free-text place names to coordinates through a
// public address-search service.
package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const (
	// AdresseSearchURL is the French national address search endpoint.
	AdresseSearchURL = "https://api-adresse.data.gouv.fr/search/"
	// NominatimSearchURL is the OpenStreetMap search endpoint.
	NominatimSearchURL = "https://nominatim.openstreetmap.org/search"
)

// Geocoder looks up a free-text query. An empty FeatureCollection with a nil
// error means nothing matched.
type Geocoder interface {
	Search(ctx context.Context, query string) (*FeatureCollection, error)
}

// AdresseGeocoder queries an api-adresse compatible endpoint, which already
// answers with GeoJSON.
type AdresseGeocoder struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
}

func NewAdresseGeocoder(endpoint string, httpClient *http.Client) *AdresseGeocoder {
	if endpoint == "" {
		endpoint = AdresseSearchURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AdresseGeocoder{endpoint: endpoint, httpClient: httpClient, userAgent: "places-client/1.0"}
}

func (g *AdresseGeocoder) Search(ctx context.Context, query string) (*FeatureCollection, error) {
	params := url.Values{}
	params.Set("q", query)

	var fc FeatureCollection
	if err := getJSON(ctx, g.httpClient, g.endpoint, params, g.userAgent, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, params url.Values, userAgent string, out any) error {
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected geocoder status: %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding geocoder response: %w", err)
	}
	return nil
}
