package repository

import (
	"context"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// StaticSource serves a fixed movie list.  Each subscription receives one
// delivery and never changes afterwards.
type StaticSource struct {
	movies []model.Movie
}

// NewStaticSource copies movies into a new source.
func NewStaticSource(movies []model.Movie) *StaticSource {
	cp := make([]model.Movie, len(movies))
	copy(cp, movies)
	return &StaticSource{movies: cp}
}

func (s *StaticSource) WatchAll(ctx context.Context, fn func([]model.Movie)) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.Movie, len(s.movies))
	copy(out, s.movies)
	fn(out)
	return once(func() {}), nil
}

func (s *StaticSource) Watch(ctx context.Context, id string, fn func(*model.Movie)) (Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := s.Get(id)
	if err != nil {
		fn(nil)
	} else {
		fn(&m)
	}
	return once(func() {}), nil
}

// Get returns the movie stored under id or ErrMovieNotFound.
func (s *StaticSource) Get(id string) (model.Movie, error) {
	for _, m := range s.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, ErrMovieNotFound
}
