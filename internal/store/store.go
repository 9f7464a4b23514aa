// Package store holds the authoritative in-memory list of the current user's
// places. It never performs I/O; callers mutate it only after the backend has
// confirmed a change.
package store

import (
	"sync"

	"github.com/google/uuid"

	"places/internal/models"
)

// PlaceStore is an ordered, concurrency-safe collection of places with
// snapshot subscriptions. The zero value is not usable; use New.
type PlaceStore struct {
	mu     sync.RWMutex
	places []models.Place
	subs   map[int]chan []models.Place
	nextID int
}

// New returns an empty store.
func New() *PlaceStore {
	return &PlaceStore{subs: make(map[int]chan []models.Place)}
}

// ReplaceAll discards the current collection and installs places in the given
// order. Entries without an ID get one.
func (s *PlaceStore) ReplaceAll(places []models.Place) {
	next := make([]models.Place, len(places))
	for i, p := range places {
		next[i] = withID(p)
	}

	s.mu.Lock()
	s.places = next
	s.notifyLocked()
	s.mu.Unlock()
}

// Add appends place to the end of the collection and returns it with its ID.
// Duplicates are allowed.
func (s *PlaceStore) Add(place models.Place) models.Place {
	place = withID(place)

	s.mu.Lock()
	s.places = append(s.places, place)
	s.notifyLocked()
	s.mu.Unlock()

	return place
}

// Remove deletes every place whose name equals name and returns how many were
// removed. Removing an unknown name is a no-op.
func (s *PlaceStore) Remove(name string) int {
	return s.removeWhere(func(p models.Place) bool { return p.Name == name })
}

// RemoveByID deletes the place with the given ID, if present.
func (s *PlaceStore) RemoveByID(id string) bool {
	return s.removeWhere(func(p models.Place) bool { return p.ID == id }) > 0
}

func (s *PlaceStore) removeWhere(match func(models.Place) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Place, 0, len(s.places))
	for _, p := range s.places {
		if !match(p) {
			kept = append(kept, p)
		}
	}
	removed := len(s.places) - len(kept)
	if removed == 0 {
		return 0
	}
	s.places = kept
	s.notifyLocked()
	return removed
}

// Places returns a copy of the current collection.
func (s *PlaceStore) Places() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *PlaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.places)
}

// Subscribe returns a channel that receives a snapshot after every mutation,
// and a cancel func that closes it. Slow subscribers only ever see the latest
// snapshot.
func (s *PlaceStore) Subscribe() (<-chan []models.Place, func()) {
	ch := make(chan []models.Place, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

func (s *PlaceStore) snapshotLocked() []models.Place {
	out := make([]models.Place, len(s.places))
	copy(out, s.places)
	return out
}

// notifyLocked must be called with s.mu held for writing.
func (s *PlaceStore) notifyLocked() {
	for _, ch := range s.subs {
		snapshot := s.snapshotLocked()
		// drop a pending snapshot nobody read yet
		select {
		case <-ch:
		default:
		}
		ch <- snapshot
	}
}

func withID(p models.Place) models.Place {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return p
}
