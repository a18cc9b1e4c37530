package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/booking"
)

// RequestValidator plugs validator/v10 into echo's c.Validate.  Failures
// come back as booking.FieldErrors keyed by JSON field name.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator wraps v; nil selects booking.NewValidator.
func NewRequestValidator(v *validator.Validate) *RequestValidator {
	if v == nil {
		v = booking.NewValidator()
	}
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := booking.FieldErrors{}
	for _, fe := range ve {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "oneof":
			out[fe.Field()] = "must be one of: " + fe.Param()
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}

// bindValid binds the body into req and validates it.  It writes the
// error response itself and reports whether the handler should go on.
func bindValid(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, invalid(c, err)
	}
	return true, nil
}

// invalid renders a validation failure as 422 with per-field messages.
func invalid(c echo.Context, err error) error {
	var fe booking.FieldErrors
	if errors.As(err, &fe) {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "validation failed", "fields": fe})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
}
