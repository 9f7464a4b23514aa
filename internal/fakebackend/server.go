// Package fakebackend is an in-memory stand-in for the remote places backend
// and the address-search service, for tests and local runs.
package fakebackend

import (
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"places/internal/models"
)

// Routes as reported by Calls.
const (
	RouteList   = "GET /places/{nickname}"
	RouteCreate = "POST /places"
	RouteDelete = "DELETE /places"
)

type Server struct {
	mu       sync.Mutex
	places   map[string][]models.Place
	calls    map[string]int
	reject   bool
	validate *validator.Validate
}

func New() *Server {
	return &Server{
		places:   make(map[string][]models.Place),
		calls:    make(map[string]int),
		validate: validator.New(),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/places/{nickname}", s.listPlaces)
	r.Post("/places", s.createPlace)
	r.Delete("/places", s.deletePlace)
	return r
}

// Seed replaces the places stored for nickname.
func (s *Server) Seed(nickname string, places ...models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.places[nickname] = append([]models.Place(nil), places...)
}

// Places returns what is stored for nickname.
func (s *Server) Places(nickname string) []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Place(nil), s.places[nickname]...)
}

// Reject makes every endpoint answer result=false.
func (s *Server) Reject(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reject = reject
}

func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// record counts the request under its route pattern before it is answered.
func (s *Server) record(r *http.Request) {
	route := r.Method + " " + chi.RouteContext(r.Context()).RoutePattern()
	s.mu.Lock()
	s.calls[route]++
	s.mu.Unlock()
}

type response struct {
	Result bool           `json:"result"`
	Places []models.Place `json:"places,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type createRequest struct {
	Nickname  string   `json:"nickname" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (c *createRequest) Bind(_ *http.Request) error { return nil }

type deleteRequest struct {
	Nickname string `json:"nickname" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

func (d *deleteRequest) Bind(_ *http.Request) error { return nil }

func (s *Server) rejecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reject
}

func (s *Server) listPlaces(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	if s.rejecting() {
		render.JSON(w, r, response{Result: false, Error: "rejected"})
		return
	}
	render.JSON(w, r, response{Result: true, Places: s.Places(chi.URLParam(r, "nickname"))})
}

func (s *Server) createPlace(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	data := &createRequest{}
	if err := s.bind(r, data); err != nil {
		badRequest(w, r, err)
		return
	}
	if s.rejecting() {
		render.JSON(w, r, response{Result: false, Error: "rejected"})
		return
	}

	s.mu.Lock()
	s.places[data.Nickname] = append(s.places[data.Nickname], models.Place{
		Name:      data.Name,
		Latitude:  *data.Latitude,
		Longitude: *data.Longitude,
	})
	s.mu.Unlock()

	render.JSON(w, r, response{Result: true})
}

// deletePlace removes the first place with the given name, like a
// deleteOne on the backend collection.
func (s *Server) deletePlace(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	data := &deleteRequest{}
	if err := s.bind(r, data); err != nil {
		badRequest(w, r, err)
		return
	}
	if s.rejecting() {
		render.JSON(w, r, response{Result: false, Error: "rejected"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.places[data.Nickname]
	for i, p := range list {
		if p.Name == data.Name {
			s.places[data.Nickname] = append(list[:i:i], list[i+1:]...)
			render.JSON(w, r, response{Result: true})
			return
		}
	}
	render.JSON(w, r, response{Result: false, Error: "Place not found"})
}

func (s *Server) bind(r *http.Request, v render.Binder) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return err
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New("missing or invalid field " + verrs[0].Field())
		}
		return err
	}
	return v.Bind(r)
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, response{Result: false, Error: err.Error()})
}
