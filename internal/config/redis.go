package config

import (
	"context"
	"crypto/tls"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions builds client options from REDIS_* variables:
//   REDIS_ADDR (or REDIS_HOST + REDIS_PORT), REDIS_PASSWORD, REDIS_DB and
//   REDIS_TLS.
func RedisOptions() *redis.Options {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", "")
	if host != "" && port != "" {
		addr = host + ":" + port
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: envStr("REDIS_PASSWORD", ""),
		DB:       envInt("REDIS_DB", 0),
	}
	if envBool("REDIS_TLS", false) {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opts
}

// NewRedisClient connects with RedisOptions and pings the server.  It
// returns nil when Redis is unreachable; callers then run without cache,
// rate limit and the redis movie source.
func NewRedisClient() *redis.Client {
	opts := RedisOptions()
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("redis: %s unreachable: %v", opts.Addr, err)
		_ = client.Close()
		return nil
	}
	return client
}
