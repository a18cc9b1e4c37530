package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// DefaultPollInterval is how often SQLSource re-reads the table when no
// interval is configured.
const DefaultPollInterval = 5 * time.Second

// SQLSource stores each movie as a JSON document in the movies table
// (see database.EnsureSchema).  MySQL has no change feed, so subscribers
// poll and are called only when the rows they read have changed.
type SQLSource struct {
	db       *sql.DB
	interval time.Duration
}

// NewSQLSource returns a source polling db every interval.
func NewSQLSource(db *sql.DB, interval time.Duration) *SQLSource {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &SQLSource{db: db, interval: interval}
}

func (s *SQLSource) WatchAll(ctx context.Context, fn func([]model.Movie)) (Unsubscribe, error) {
	return s.poll(ctx, func(ctx context.Context) ([]byte, func(), error) {
		docs, err := s.rows(ctx)
		if err != nil {
			return nil, nil, err
		}
		return fingerprint(docs), func() { fn(NormalizeCollection(docs)) }, nil
	})
}

func (s *SQLSource) Watch(ctx context.Context, id string, fn func(*model.Movie)) (Unsubscribe, error) {
	return s.poll(ctx, func(ctx context.Context) ([]byte, func(), error) {
		doc, err := s.doc(ctx, id)
		if errors.Is(err, ErrMovieNotFound) {
			return nil, func() { fn(nil) }, nil
		}
		if err != nil {
			return nil, nil, err
		}
		m, err := decodeMovie(id, doc)
		if err != nil {
			return nil, nil, err
		}
		sum := sha256.Sum256(doc)
		return sum[:], func() { fn(&m) }, nil
	})
}

// poll runs read once synchronously and then on every tick.  deliver is
// invoked whenever the fingerprint differs from the previous read.
func (s *SQLSource) poll(ctx context.Context, read func(context.Context) ([]byte, func(), error)) (Unsubscribe, error) {
	sum, deliver, err := read(ctx)
	if err != nil {
		return nil, err
	}
	deliver()

	ctx, cancel := context.WithCancel(ctx)
	go func() {
		last := sum
		t := time.NewTicker(s.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				sum, deliver, err := read(ctx)
				if err != nil {
					if ctx.Err() == nil {
						log.Printf("repository: poll movies: %v", err)
					}
					continue
				}
				if string(sum) == string(last) {
					continue
				}
				last = sum
				deliver()
			}
		}
	}()
	return once(cancel), nil
}

func (s *SQLSource) rows(ctx context.Context) (map[string][]byte, error) {
	const q = `SELECT id, doc FROM movies ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs := map[string][]byte{}
	for rows.Next() {
		var id string
		var doc []byte
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, err
		}
		docs[id] = doc
	}
	return docs, rows.Err()
}

func (s *SQLSource) doc(ctx context.Context, id string) ([]byte, error) {
	const q = `SELECT doc FROM movies WHERE id = ?`
	var doc []byte
	err := s.db.QueryRowContext(ctx, q, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMovieNotFound
	}
	return doc, err
}

// Get returns one movie or ErrMovieNotFound.
func (s *SQLSource) Get(ctx context.Context, id string) (model.Movie, error) {
	doc, err := s.doc(ctx, id)
	if err != nil {
		return model.Movie{}, err
	}
	return decodeMovie(id, doc)
}

// Put inserts or replaces the document of m.
func (s *SQLSource) Put(ctx context.Context, m model.Movie) error {
	if m.ID == "" {
		return errors.New("movie id is required")
	}
	doc, err := encodeMovie(m)
	if err != nil {
		return err
	}
	const q = `INSERT INTO movies (id, doc) VALUES (?, ?) ON DUPLICATE KEY UPDATE doc = VALUES(doc)`
	if _, err := s.db.ExecContext(ctx, q, m.ID, doc); err != nil {
		return fmt.Errorf("put movie %s: %w", m.ID, err)
	}
	return nil
}

// Delete removes the movie stored under id.
func (s *SQLSource) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// fingerprint hashes docs in key order.
func fingerprint(docs map[string][]byte) []byte {
	h := sha256.New()
	for _, k := range sortedKeys(docs) {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write(docs[k])
		h.Write([]byte{0})
	}
	return h.Sum(nil)
}
