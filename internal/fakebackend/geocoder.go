package fakebackend

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"places/pkg/location"
)

// Geocoder serves GET /search/?q= from a fixed table of answers keyed by the
// lowercased query. Unknown queries get an empty feature collection.
type Geocoder struct {
	mu      sync.Mutex
	answers map[string][]location.Feature
	queries []string
}

func NewGeocoder() *Geocoder {
	return &Geocoder{answers: make(map[string][]location.Feature)}
}

// Answer registers the features returned for query.
func (g *Geocoder) Answer(query string, features ...location.Feature) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.answers[strings.ToLower(query)] = features
}

// Queries lists every q received, in order.
func (g *Geocoder) Queries() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.queries...)
}

func (g *Geocoder) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/search/", g.search)
	return r
}

func (g *Geocoder) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	g.mu.Lock()
	g.queries = append(g.queries, q)
	features := g.answers[strings.ToLower(q)]
	g.mu.Unlock()

	if features == nil {
		features = []location.Feature{}
	}
	render.JSON(w, r, location.FeatureCollection{Type: "FeatureCollection", Features: features})
}

// City builds the feature the address-search service returns for a
// municipality.
func City(name string, longitude, latitude float64) location.Feature {
	return location.Feature{
		Type:       "Feature",
		Properties: location.Properties{Label: name, Name: name, City: name, Type: "municipality"},
		Geometry:   location.Geometry{Type: "Point", Coordinates: []float64{longitude, latitude}},
	}
}
