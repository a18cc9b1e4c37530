package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/booking"
	"github.com/iliyamo/moviex-storefront/internal/session"
)

// TicketHandler serves the parameter-driven payment and ticket screens,
// QR images and the tickets tab.
type TicketHandler struct {
	Tickets *booking.TicketGenerator
	Wallet  *session.Wallet
}

type payRequest struct {
	Method string         `json:"method"`
	Params booking.Params `json:"params"`
}

type renderRequest struct {
	Params booking.Params `json:"params"`
}

// Pay runs the payment stub over a parameter bag and forwards it.
func (h *TicketHandler) Pay(c echo.Context) error {
	var req payRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	params, method, err := booking.Pay(req.Method, req.Params)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"method": method, "params": params})
}

// Render builds a ticket from a parameter bag without storing it.
func (h *TicketHandler) Render(c echo.Context) error {
	var req renderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return c.JSON(http.StatusOK, h.Tickets.Render(req.Params))
}

// QRCode renders the ticket code as a PNG.  ?size= sets the edge length,
// bounded to 64..1024 pixels.
func (h *TicketHandler) QRCode(c echo.Context) error {
	size := booking.DefaultQRSize
	if s := c.QueryParam("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 64 || n > 1024 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid size"})
		}
		size = n
	}
	png, err := booking.QRCodePNG(c.Param("code"), size)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=86400")
	return c.Blob(http.StatusOK, "image/png", png)
}

// MyTickets lists the caller's issued tickets split into upcoming and
// past.  The caller is identified by the client key header.
func (h *TicketHandler) MyTickets(c echo.Context) error {
	owner := clientKey(c)
	if owner == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing client key"})
	}
	return c.JSON(http.StatusOK, h.Wallet.Tickets(owner))
}

// MyTicket returns one of the caller's tickets by code.
func (h *TicketHandler) MyTicket(c echo.Context) error {
	owner := clientKey(c)
	if owner == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing client key"})
	}
	tk, ok := h.Wallet.FindTicket(owner, c.Param("code"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	return c.JSON(http.StatusOK, tk)
}
