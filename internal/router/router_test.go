package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/handler"
)

func newHandlers() Handlers {
	return Handlers{
		Movies:         &handler.MovieHandler{},
		Stream:         &handler.StreamHandler{},
		Bookings:       &handler.BookingHandler{},
		Tickets:        &handler.TicketHandler{},
		PaymentMethods: &handler.PaymentMethodHandler{},
	}
}

func TestRegisterRoutes(t *testing.T) {
	e := echo.New()
	RegisterRoutes(e, newHandlers())

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"GET /v1/movies",
		"GET /v1/movies/:id",
		"GET /v1/movies/stream",
		"GET /v1/movies/:id/stream",
		"GET /v1/snacks",
		"GET /v1/booking-dates",
		"POST /v1/bookings",
		"GET /v1/bookings/:id",
		"DELETE /v1/bookings/:id",
		"GET /v1/bookings/:id/seats",
		"POST /v1/bookings/:id/seats/:seat",
		"POST /v1/bookings/:id/snacks",
		"PUT /v1/bookings/:id/schedule",
		"PUT /v1/bookings/:id/stage",
		"POST /v1/bookings/:id/proceed",
		"POST /v1/bookings/:id/payment",
		"POST /v1/bookings/:id/ticket",
		"POST /v1/payments",
		"POST /v1/tickets",
		"GET /v1/tickets/:code/qr.png",
		"GET /v1/my-tickets",
		"GET /v1/my-tickets/:code",
		"GET /v1/payment-methods",
		"POST /v1/payment-methods/card",
		"POST /v1/payment-methods/momo",
	} {
		assert.True(t, got[want], want)
	}
}

func TestRegisterRoutes_RateLimitWrapsV1Only(t *testing.T) {
	var hits int
	h := newHandlers()
	h.RateLimit = func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits++
			return c.NoContent(http.StatusTooManyRequests)
		}
	}
	e := echo.New()
	RegisterRoutes(e, h)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, hits)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/snacks", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, 1, hits)
}
