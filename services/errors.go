package services

import "errors"

var (
	// ErrMovieNotFound is returned when an id does not reference a stored movie.
	ErrMovieNotFound = errors.New("movie not found")
	// ErrDuplicateTitle is returned when inserting a title that is already in the catalog.
	ErrDuplicateTitle = errors.New("movie with this title already exists")
	// ErrRemoteService is returned when the metadata service is unreachable or
	// answers with something we cannot use.
	ErrRemoteService = errors.New("movie metadata service failed")
)
