// Package watcher turns a raw device position stream into the coordinates
// the view layer follows: nothing until the user grants location access, then
// the first fix and every fix at least MinDistance meters from the last one
// emitted.
package watcher

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/golang/geo/s2"

	"places/internal/models"
)

// DefaultMinDistance is the minimum displacement, in meters, between two
// emitted positions.
const DefaultMinDistance = 10.0

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6371008.8

var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrAlreadyStarted   = errors.New("watcher already started")
)

// PermissionRequester asks the user for foreground location access.
type PermissionRequester interface {
	RequestPermission(ctx context.Context) (bool, error)
}

// StaticPermission answers every request with the same decision.
type StaticPermission bool

func (p StaticPermission) RequestPermission(context.Context) (bool, error) {
	return bool(p), nil
}

// PositionSource delivers device fixes until ctx is done or the source is
// exhausted, at which point the channel is closed.
type PositionSource interface {
	Positions(ctx context.Context) (<-chan models.Coordinate, error)
}

type Watcher struct {
	permission  PermissionRequester
	source      PositionSource
	minDistance float64

	mu      sync.RWMutex
	asked   bool
	granted bool
	started bool
	current *models.Coordinate
	updates chan models.Coordinate
	done    chan struct{}
}

type Option func(*Watcher)

// WithMinDistance overrides DefaultMinDistance. Zero emits every fix.
func WithMinDistance(meters float64) Option {
	return func(w *Watcher) { w.minDistance = meters }
}

func New(permission PermissionRequester, source PositionSource, opts ...Option) *Watcher {
	w := &Watcher{
		permission:  permission,
		source:      source,
		minDistance: DefaultMinDistance,
		updates:     make(chan models.Coordinate, 1),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start asks for permission, once per Watcher, and begins following the
// position source in the background. A denial is final: later calls return
// ErrPermissionDenied without asking again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	if !w.asked {
		granted, err := w.permission.RequestPermission(ctx)
		if err != nil {
			return err
		}
		w.asked = true
		w.granted = granted
	}
	if !w.granted {
		return ErrPermissionDenied
	}

	positions, err := w.source.Positions(ctx)
	if err != nil {
		return err
	}
	w.started = true

	go w.follow(positions)
	return nil
}

func (w *Watcher) follow(positions <-chan models.Coordinate) {
	defer close(w.done)
	defer close(w.updates)

	for pos := range positions {
		if !w.accept(pos) {
			continue
		}
		// Only the latest fix matters to a slow reader.
		select {
		case <-w.updates:
		default:
		}
		w.updates <- pos
	}
	log.Println("Position stream ended, watcher stopped.")
}

// accept records pos as current when it is the first fix or far enough from
// the previous one.
func (w *Watcher) accept(pos models.Coordinate) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.current != nil && Distance(*w.current, pos) < w.minDistance {
		return false
	}
	w.current = &pos
	return true
}

// Current returns the last emitted position. ok is false until a first fix
// arrived, and forever when permission was denied.
func (w *Watcher) Current() (models.Coordinate, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.current == nil {
		return models.Coordinate{}, false
	}
	return *w.current, true
}

// Updates streams emitted positions. The channel keeps only the most recent
// unread one and is closed once the source ends.
func (w *Watcher) Updates() <-chan models.Coordinate {
	return w.updates
}

// Done is closed once the position stream has ended.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// Distance is the great-circle distance between a and b in meters.
func Distance(a, b models.Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Latitude, a.Longitude).Distance(s2.LatLngFromDegrees(b.Latitude, b.Longitude))
	return angle.Radians() * earthRadiusMeters
}
