// Package router registers the storefront's HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/handler"
)

// Handlers groups everything RegisterRoutes wires.  Cache wraps the movie
// listing and detail routes; RateLimit wraps every /v1 route.  Either may
// be nil.
type Handlers struct {
	Movies         *handler.MovieHandler
	Stream         *handler.StreamHandler
	Bookings       *handler.BookingHandler
	Tickets        *handler.TicketHandler
	PaymentMethods *handler.PaymentMethodHandler
	Cache          echo.MiddlewareFunc
	RateLimit      echo.MiddlewareFunc
}

// RegisterRoutes mounts the health probe and the /v1 API on e.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	if h.RateLimit != nil {
		v1.Use(h.RateLimit)
	}

	var cached []echo.MiddlewareFunc
	if h.Cache != nil {
		cached = append(cached, h.Cache)
	}
	v1.GET("/movies/stream", h.Stream.All)
	v1.GET("/movies/:id/stream", h.Stream.One)
	v1.GET("/movies", h.Movies.List, cached...)
	v1.GET("/movies/:id", h.Movies.Get, cached...)

	v1.GET("/snacks", h.Bookings.ListSnacks)
	v1.GET("/booking-dates", h.Bookings.ListDates)

	b := v1.Group("/bookings")
	b.POST("", h.Bookings.Create)
	b.GET("/:id", h.Bookings.Get)
	b.DELETE("/:id", h.Bookings.Cancel)
	b.GET("/:id/seats", h.Bookings.Seats)
	b.POST("/:id/seats/:seat", h.Bookings.ToggleSeat)
	b.POST("/:id/snacks", h.Bookings.AdjustSnack)
	b.PUT("/:id/schedule", h.Bookings.Schedule)
	b.PUT("/:id/stage", h.Bookings.SetStage)
	b.POST("/:id/proceed", h.Bookings.Proceed)
	b.POST("/:id/payment", h.Bookings.Pay)
	b.POST("/:id/ticket", h.Bookings.IssueTicket)

	v1.POST("/payments", h.Tickets.Pay)
	v1.POST("/tickets", h.Tickets.Render)
	v1.GET("/tickets/:code/qr.png", h.Tickets.QRCode)
	v1.GET("/my-tickets", h.Tickets.MyTickets)
	v1.GET("/my-tickets/:code", h.Tickets.MyTicket)

	pm := v1.Group("/payment-methods")
	pm.GET("", h.PaymentMethods.List)
	pm.POST("/card", h.PaymentMethods.AddCard)
	pm.POST("/momo", h.PaymentMethods.AddMomo)
}
