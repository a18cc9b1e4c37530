package config

import (
	"strings"
	"time"
)

// CacheConfig configures the Redis response cache that sits in front of
// the movie listing.  Entries are keyed by route, query and catalog
// version, so a catalog delivery makes older entries unreachable before
// their TTL runs out.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	methods := map[string]bool{}
	for _, m := range envList("CACHE_METHODS", "GET") {
		methods[strings.ToUpper(m)] = true
	}
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      methods,
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "cache"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}
