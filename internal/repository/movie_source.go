// Package repository contains data access for the movie catalog.  A
// MovieSource delivers the whole current value of a path every time it
// changes: the movie list for "movies" and a single movie (or nil) for
// "movies/{id}".  Callers stop a subscription with the returned
// Unsubscribe or by cancelling the context passed to Watch/WatchAll.
package repository

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// MoviesPath is the collection path of the catalog.
const MoviesPath = "movies"

// MoviePath returns the document path of one movie.
func MoviePath(id string) string { return MoviesPath + "/" + id }

// Unsubscribe stops a subscription.  It is safe to call more than once.
type Unsubscribe func()

// MovieSource is implemented by the static, Redis and MySQL catalogs.
type MovieSource interface {
	// WatchAll calls fn with the full movie list now and after every
	// change.  An absent collection is delivered as an empty list.
	WatchAll(ctx context.Context, fn func([]model.Movie)) (Unsubscribe, error)
	// Watch calls fn with the movie stored under id now and after every
	// change; nil means the movie does not exist.
	Watch(ctx context.Context, id string, fn func(*model.Movie)) (Unsubscribe, error)
}

// MovieWriter is implemented by sources that can be seeded.
type MovieWriter interface {
	Put(ctx context.Context, m model.Movie) error
	Delete(ctx context.Context, id string) error
}

// NormalizeCollection turns a keyed collection of stored documents into
// a movie list sorted by key.  The key is used as the movie id unless the
// document carries its own.  Documents that fail to decode are skipped.
func NormalizeCollection(docs map[string][]byte) []model.Movie {
	keys := sortedKeys(docs)
	out := make([]model.Movie, 0, len(keys))
	for _, k := range keys {
		m, err := decodeMovie(k, docs[k])
		if err != nil {
			log.Printf("repository: skip movie %q: %v", k, err)
			continue
		}
		out = append(out, m)
	}
	return out
}

func sortedKeys(docs map[string][]byte) []string {
	keys := make([]string, 0, len(docs))
	for k := range docs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeMovie(key string, doc []byte) (model.Movie, error) {
	var m model.Movie
	if err := json.Unmarshal(doc, &m); err != nil {
		return model.Movie{}, err
	}
	if strings.TrimSpace(m.ID) == "" {
		m.ID = key
	}
	return m, nil
}

func encodeMovie(m model.Movie) ([]byte, error) { return json.Marshal(m) }

// once wraps stop so that repeated calls are harmless.
func once(stop func()) Unsubscribe {
	var o sync.Once
	return func() { o.Do(stop) }
}
