// Package placesync bridges user intents to the remote places backend. The
// local store is only mutated after the backend confirmed a change with
// result=true; every failure leaves it untouched and is returned as an error
// value the caller is free to ignore.
package placesync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"places/internal/models"
	"places/internal/store"
	"places/pkg/backend"
	"places/pkg/location"
)

// Backend is the subset of the remote service the client needs.
type Backend interface {
	FetchPlaces(ctx context.Context, nickname string) (*backend.PlacesResponse, error)
	CreatePlace(ctx context.Context, req backend.CreatePlaceRequest) (*backend.Response, error)
	DeletePlace(ctx context.Context, req backend.DeletePlaceRequest) (*backend.Response, error)
}

type Client struct {
	backend  Backend
	geocoder location.Geocoder
	places   *store.PlaceStore
	metrics  *Metrics
}

type Option func(*Client)

// WithMetrics records every operation outcome in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(b Backend, g location.Geocoder, places *store.PlaceStore, opts ...Option) *Client {
	c := &Client{backend: b, geocoder: g, places: places}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadAll replaces the store content with the places the backend holds for
// nickname.
func (c *Client) LoadAll(ctx context.Context, nickname string) (err error) {
	defer c.observe(opLoadAll, time.Now(), &err)

	resp, err := c.backend.FetchPlaces(ctx, nickname)
	if err != nil {
		return fmt.Errorf("loading places of %s: %w", nickname, err)
	}
	if !resp.Result {
		return fmt.Errorf("loading places of %s: %w", nickname, ErrRejected)
	}
	c.places.ReplaceAll(resp.Places)
	return nil
}

// RegisterPlace asks the backend to save a place and returns it once
// confirmed. It does not touch the store; see AddPlace.
func (c *Client) RegisterPlace(ctx context.Context, nickname, name string, latitude, longitude float64) (place *models.Place, err error) {
	defer c.observe(opRegister, time.Now(), &err)
	return c.register(ctx, nickname, name, latitude, longitude)
}

func (c *Client) register(ctx context.Context, nickname, name string, latitude, longitude float64) (*models.Place, error) {
	resp, err := c.backend.CreatePlace(ctx, backend.CreatePlaceRequest{
		Nickname:  nickname,
		Name:      name,
		Latitude:  latitude,
		Longitude: longitude,
	})
	if err != nil {
		return nil, fmt.Errorf("registering %q: %w", name, err)
	}
	if !resp.Result {
		return nil, fmt.Errorf("registering %q: %w", name, ErrRejected)
	}
	return &models.Place{Name: name, Latitude: latitude, Longitude: longitude}, nil
}

// RegisterPlaceByCityName geocodes cityText and registers the best match.
// The registration request is only sent once the lookup has answered with at
// least one feature.
func (c *Client) RegisterPlaceByCityName(ctx context.Context, nickname, cityText string) (place *models.Place, err error) {
	defer c.observe(opRegisterCity, time.Now(), &err)

	if strings.TrimSpace(cityText) == "" {
		return nil, ErrEmptyQuery
	}

	fc, err := c.geocoder.Search(ctx, cityText)
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w", cityText, err)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("geocoding %q: %w", cityText, ErrNoMatch)
	}

	best := fc.Features[0]
	coord, err := best.Coordinate()
	if err != nil {
		return nil, fmt.Errorf("geocoding %q: %w: %w", cityText, ErrMalformedFeature, err)
	}
	return c.register(ctx, nickname, best.DisplayName(), coord.Latitude, coord.Longitude)
}

// DeletePlace removes every place named name, remotely then locally.
func (c *Client) DeletePlace(ctx context.Context, nickname, name string) (err error) {
	defer c.observe(opDelete, time.Now(), &err)

	resp, err := c.backend.DeletePlace(ctx, backend.DeletePlaceRequest{Nickname: nickname, Name: name})
	if err != nil {
		return fmt.Errorf("deleting %q: %w", name, err)
	}
	if !resp.Result {
		return fmt.Errorf("deleting %q: %w", name, ErrRejected)
	}
	c.places.Remove(name)
	return nil
}

// AddPlace registers a place at a known coordinate (a long press on the map)
// and appends it to the store once confirmed.
func (c *Client) AddPlace(ctx context.Context, nickname, name string, at models.Coordinate) (models.Place, error) {
	place, err := c.RegisterPlace(ctx, nickname, name, at.Latitude, at.Longitude)
	if err != nil {
		return models.Place{}, err
	}
	return c.places.Add(*place), nil
}

// AddCity registers the best geocoder match for cityText and appends it to the
// store once confirmed.
func (c *Client) AddCity(ctx context.Context, nickname, cityText string) (models.Place, error) {
	place, err := c.RegisterPlaceByCityName(ctx, nickname, cityText)
	if err != nil {
		return models.Place{}, err
	}
	return c.places.Add(*place), nil
}

func (c *Client) observe(op string, start time.Time, errp *error) {
	if c.metrics == nil {
		return
	}
	c.metrics.observe(op, outcomeOf(*errp), time.Since(start))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrRejected):
		return outcomeRejected
	case errors.Is(err, ErrNoMatch), errors.Is(err, ErrEmptyQuery), errors.Is(err, ErrMalformedFeature):
		return outcomeNoMatch
	default:
		return outcomeError
	}
}
