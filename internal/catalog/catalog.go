// Package catalog keeps the in-process copy of the movie list.  The copy
// is replaced wholesale on every delivery from the movie source.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/iliyamo/moviex-storefront/internal/model"
	"github.com/iliyamo/moviex-storefront/internal/repository"
)

// ErrLoading is returned before the source has delivered for the first
// time.  It is distinct from repository.ErrMovieNotFound.
var ErrLoading = errors.New("catalog is loading")

// Filter selects a listing tab.
type Filter string

const (
	FilterAll        Filter = ""
	FilterNowShowing Filter = "now-showing"
	FilterComingSoon Filter = "coming-soon"
)

// ParseFilter accepts the tab names used in query strings.
func ParseFilter(s string) (Filter, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, true
	case "now-showing", "now_showing", "nowshowing":
		return FilterNowShowing, true
	case "coming-soon", "coming_soon", "comingsoon":
		return FilterComingSoon, true
	}
	return "", false
}

// Catalog mirrors the source's movie list.
type Catalog struct {
	src repository.MovieSource

	mu      sync.RWMutex
	movies  []model.Movie
	loaded  bool
	version uint64
	unsub   repository.Unsubscribe
}

// New returns a catalog over src.  Call Start to begin receiving.
func New(src repository.MovieSource) *Catalog {
	return &Catalog{src: src}
}

// Start subscribes to the whole collection.  The subscription ends when
// ctx is cancelled or Stop is called.
func (c *Catalog) Start(ctx context.Context) error {
	unsub, err := c.src.WatchAll(ctx, c.replace)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.unsub = unsub
	c.mu.Unlock()
	return nil
}

// Stop cancels the subscription.
func (c *Catalog) Stop() {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (c *Catalog) replace(movies []model.Movie) {
	cp := make([]model.Movie, len(movies))
	copy(cp, movies)
	c.mu.Lock()
	c.movies = cp
	c.loaded = true
	c.version++
	c.mu.Unlock()
}

// Version counts deliveries.  It is zero while loading.
func (c *Catalog) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Get returns the movie with id, ErrLoading before the first delivery or
// repository.ErrMovieNotFound when the id is absent.
func (c *Catalog) Get(id string) (model.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return model.Movie{}, ErrLoading
	}
	for _, m := range c.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrMovieNotFound
}

// List returns the movies on the tab f whose title contains q, ignoring
// case.  An empty q matches every title.
func (c *Catalog) List(f Filter, q string) ([]model.Movie, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, ErrLoading
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]model.Movie, 0, len(c.movies))
	for _, m := range c.movies {
		if !matches(m, f) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(m.Title), q) {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func matches(m model.Movie, f Filter) bool {
	switch f {
	case FilterNowShowing:
		return m.IsNowShowing()
	case FilterComingSoon:
		return m.Status == model.StatusComingSoon
	}
	return true
}
