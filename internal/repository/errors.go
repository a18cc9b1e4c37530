package repository

import "errors"

// ErrMovieNotFound is returned by lookups for an id that is not in the
// catalog.  Watch never returns it; a missing movie is delivered as nil.
// Handlers translate it into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrUnknownSource is returned by Open for a MOVIE_SOURCE value that names
// no backend.
var ErrUnknownSource = errors.New("unknown movie source")
