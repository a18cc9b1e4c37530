package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// Backends holds whatever connections the process managed to open.
// Either client may be nil.
type Backends struct {
	Redis    *redis.Client
	DB       *sql.DB
	Fixtures []model.Movie
	Poll     time.Duration
}

// Open selects the movie source named by kind: "static", "redis" or
// "mysql".  The empty string selects static.
func Open(kind string, b Backends) (MovieSource, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "static":
		return NewStaticSource(b.Fixtures), nil
	case "redis":
		if b.Redis == nil {
			return nil, errors.New("movie source redis: redis is not available")
		}
		return NewRedisSource(b.Redis, MoviesPath), nil
	case "mysql":
		if b.DB == nil {
			return nil, errors.New("movie source mysql: database is not available")
		}
		return NewSQLSource(b.DB, b.Poll), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
}
