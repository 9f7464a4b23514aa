package placesync

import "errors"

var (
	// ErrRejected means the backend answered with result=false.
	ErrRejected = errors.New("backend rejected the request")
	// ErrNoMatch means the geocoder found nothing for the query.
	ErrNoMatch = errors.New("no place matches the query")
	// ErrEmptyQuery means the city text was empty.
	ErrEmptyQuery = errors.New("empty city name")
	// ErrMalformedFeature means the best geocoder match had no usable coordinates.
	ErrMalformedFeature = errors.New("geocoder match has no coordinates")
)
