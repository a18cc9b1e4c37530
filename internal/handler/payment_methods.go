package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/booking"
	"github.com/iliyamo/moviex-storefront/internal/model"
	"github.com/iliyamo/moviex-storefront/internal/session"
)

// PaymentMethodHandler manages the saved payment methods of the profile
// screen.  Saved methods are never used to charge anything.
type PaymentMethodHandler struct {
	Registrar *booking.MethodRegistrar
	Wallet    *session.Wallet
}

// List returns the caller's saved methods.
func (h *PaymentMethodHandler) List(c echo.Context) error {
	owner := clientKey(c)
	if owner == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing client key"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Wallet.Methods(owner)})
}

// AddCard validates and saves a card.  422 lists the failing fields.
func (h *PaymentMethodHandler) AddCard(c echo.Context) error {
	var form booking.CardForm
	return h.add(c, &form, func() (model.PaymentMethod, error) { return h.Registrar.AddCard(form) })
}

// AddMomo validates and saves a mobile-money number.
func (h *PaymentMethodHandler) AddMomo(c echo.Context) error {
	var form booking.MomoForm
	return h.add(c, &form, func() (model.PaymentMethod, error) { return h.Registrar.AddMomo(form) })
}

func (h *PaymentMethodHandler) add(c echo.Context, form any, register func() (model.PaymentMethod, error)) error {
	owner := clientKey(c)
	if owner == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing client key"})
	}
	if err := c.Bind(form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	m, err := register()
	if err != nil {
		return invalid(c, err)
	}
	h.Wallet.AddMethod(owner, m)
	return c.JSON(http.StatusCreated, m)
}
