package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/config"
)

func newContext(method, target, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func TestRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/v1/bookings/abc/seats/B2", "/v1/bookings/:id/seats/:seat")
	c.SetParamNames("id", "seat")
	c.SetParamValues("abc", "B2")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_session_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:session:abc:route:POST /v1/bookings/:id/seats/:seat", RateKey(cfg, c))

	cfg.KeyStrategy = "session"
	assert.Equal(t, "rl:session:abc", RateKey(cfg, c))
}

func TestSessionID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/v1/my-tickets", "/v1/my-tickets")
	assert.Equal(t, "anon", SessionID(c))

	c.Request().Header.Set(ClientHeader, "client-7")
	assert.Equal(t, "client-7", SessionID(c))

	// :id on non-booking routes is not a session.
	c, _ = newContext(http.MethodGet, "/v1/movies/1", "/v1/movies/:id")
	c.SetParamNames("id")
	c.SetParamValues("1")
	assert.Equal(t, "anon", SessionID(c))
}

func TestCacheKey_Version(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	c, _ := newContext(http.MethodGet, "/v1/movies?status=now-showing", "/v1/movies")

	k1 := CacheKey(cfg, c, 1)
	assert.Equal(t, k1, CacheKey(cfg, c, 1))
	assert.NotEqual(t, k1, CacheKey(cfg, c, 2))
	assert.Regexp(t, `^cache:[0-9a-f]{40}$`, k1)
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload(bs[:5])
	assert.False(t, ok)
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/v1/movies", "/v1/movies")
	h := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	require.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(h)(c))
	require.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil, nil)(h)(c))
	assert.Equal(t, "okok", rec.Body.String())
}

func TestCaptureWriter_Truncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated)
	assert.Equal(t, "abcdef", rec.Body.String())
}
