package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/moviex-storefront/internal/config"
)

// ClientHeader carries the opaque client key.  It identifies a customer
// across booking sessions, e.g. for the tickets tab.
const ClientHeader = "X-Client-ID"

// tokenBucket refills interval-wise and takes one token per request.
// Returns {allowed, remaining, retry_after_ms}.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])
if tokens == nil or last_refill == nil then
  tokens = capacity
  last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
  tokens = math.min(capacity, tokens + intervals * refill_tokens)
  last_refill = last_refill + intervals * interval_ms
end

local allowed = 0
local retry_ms = 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)
return {allowed, tokens, retry_ms}
`)

// NewTokenBucket limits requests per bucket key.  Without Redis, or when
// disabled, it passes every request through; a Redis error also lets the
// request through.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := RateKey(cfg, c)
			args := []any{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			res, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key}, args...).Int64Slice()
			if err != nil || len(res) != 3 {
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s: %v %v", key, res, err)
				}
				return next(c)
			}
			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			if cfg.Debug {
				h.Set("X-RateLimit-Key", key)
			}
			if allowed {
				return next(c)
			}
			secs := int(math.Ceil(float64(retryMs) / 1000))
			h.Set("Retry-After", strconv.Itoa(secs))
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"error":       "too_many_requests",
				"message":     "rate limit exceeded",
				"retry_after": secs,
			})
		}
	}
}

// RateKey builds the bucket key for c from the configured strategy.
func RateKey(cfg config.RateLimitConfig, c echo.Context) string {
	parts := []string{cfg.Prefix}
	for _, p := range strings.Split(strings.ToLower(cfg.KeyStrategy), "_") {
		switch p {
		case "ip":
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			parts = append(parts, "ip", ip)
		case "session":
			parts = append(parts, "session", SessionID(c))
		case "route":
			parts = append(parts, "route", c.Request().Method+" "+c.Path())
		}
	}
	return strings.Join(parts, ":")
}

// SessionID returns the bucket identity of a request: the :id path
// parameter on booking routes, otherwise the ClientHeader, otherwise
// "anon".
func SessionID(c echo.Context) string {
	if strings.HasPrefix(c.Path(), "/v1/bookings/:id") {
		if id := c.Param("id"); id != "" {
			return id
		}
	}
	if id := strings.TrimSpace(c.Request().Header.Get(ClientHeader)); id != "" {
		return id
	}
	return "anon"
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
