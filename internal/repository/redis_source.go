package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// RedisSource keeps the catalog in a Redis hash (field = movie id, value =
// JSON document) and announces writes on a pub/sub channel.  The payload
// of a notification is the id that changed, or "*" for bulk writes.
// Subscribers reload on every notification that concerns them.
type RedisSource struct {
	rdb     *redis.Client
	key     string
	channel string
}

const allMovies = "*"

// NewRedisSource returns a source on the hash key.  The notification
// channel is key + ":changes".
func NewRedisSource(rdb *redis.Client, key string) *RedisSource {
	if key == "" {
		key = MoviesPath
	}
	return &RedisSource{rdb: rdb, key: key, channel: key + ":changes"}
}

func (s *RedisSource) WatchAll(ctx context.Context, fn func([]model.Movie)) (Unsubscribe, error) {
	return s.subscribe(ctx, func(string) bool { return true }, func(ctx context.Context) error {
		movies, err := s.List(ctx)
		if err != nil {
			return err
		}
		fn(movies)
		return nil
	})
}

func (s *RedisSource) Watch(ctx context.Context, id string, fn func(*model.Movie)) (Unsubscribe, error) {
	match := func(changed string) bool { return changed == id || changed == allMovies }
	return s.subscribe(ctx, match, func(ctx context.Context) error {
		m, err := s.Get(ctx, id)
		if errors.Is(err, ErrMovieNotFound) {
			fn(nil)
			return nil
		}
		if err != nil {
			return err
		}
		fn(&m)
		return nil
	})
}

// subscribe registers on the channel before the initial load so that no
// write between load and subscription is lost.
func (s *RedisSource) subscribe(ctx context.Context, match func(string) bool, load func(context.Context) error) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)
	ps := s.rdb.Subscribe(ctx, s.channel)
	if _, err := ps.Receive(ctx); err != nil {
		cancel()
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", s.channel, err)
	}
	if err := load(ctx); err != nil {
		cancel()
		_ = ps.Close()
		return nil, err
	}

	go func() {
		defer ps.Close()
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if !match(msg.Payload) {
					continue
				}
				if err := load(ctx); err != nil && ctx.Err() == nil {
					log.Printf("repository: reload %s: %v", s.key, err)
				}
			}
		}
	}()
	return once(cancel), nil
}

// List returns every movie in the hash, normalised and sorted by id.
func (s *RedisSource) List(ctx context.Context) ([]model.Movie, error) {
	raw, err := s.rdb.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	docs := make(map[string][]byte, len(raw))
	for k, v := range raw {
		docs[k] = []byte(v)
	}
	return NormalizeCollection(docs), nil
}

// Get returns one movie or ErrMovieNotFound.
func (s *RedisSource) Get(ctx context.Context, id string) (model.Movie, error) {
	b, err := s.rdb.HGet(ctx, s.key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.Movie{}, ErrMovieNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	return decodeMovie(id, b)
}

// Put stores m and notifies subscribers.
func (s *RedisSource) Put(ctx context.Context, m model.Movie) error {
	if m.ID == "" {
		return errors.New("movie id is required")
	}
	doc, err := encodeMovie(m)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.key, m.ID, doc)
		p.Publish(ctx, s.channel, m.ID)
		return nil
	})
	return err
}

// Delete removes id and notifies subscribers.  Deleting a missing movie
// returns ErrMovieNotFound.
func (s *RedisSource) Delete(ctx context.Context, id string) error {
	n, err := s.rdb.HDel(ctx, s.key, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return s.rdb.Publish(ctx, s.channel, id).Err()
}

// Replace swaps the whole catalog for movies in one transaction.
func (s *RedisSource) Replace(ctx context.Context, movies []model.Movie) error {
	fields := make([]any, 0, 2*len(movies))
	for _, m := range movies {
		doc, err := encodeMovie(m)
		if err != nil {
			return fmt.Errorf("encode movie %s: %w", m.ID, err)
		}
		fields = append(fields, m.ID, doc)
	}
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, s.key)
		if len(fields) > 0 {
			p.HSet(ctx, s.key, fields...)
		}
		p.Publish(ctx, s.channel, allMovies)
		return nil
	})
	return err
}
