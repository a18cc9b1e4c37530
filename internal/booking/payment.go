package booking

import (
	"errors"
	"strings"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

var (
	// ErrNoPaymentMethod is returned when the customer has not picked a method.
	ErrNoPaymentMethod = errors.New("no payment method selected")
	// ErrUnknownPaymentMethod is returned for tags outside the offered set.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ParsePaymentMethod maps a tag from the checkout screen to a method type.
// "mobile-money" is accepted as an alias of "momo".
func ParsePaymentMethod(tag string) (model.PaymentMethodType, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "":
		return "", ErrNoPaymentMethod
	case string(model.PaymentCard):
		return model.PaymentCard, nil
	case string(model.PaymentMomo), "mobile-money", "mobile_money":
		return model.PaymentMomo, nil
	}
	return "", ErrUnknownPaymentMethod
}

// Pay simulates the checkout.  No charge is made and no card or phone
// details are looked at; the only check is that a known method was chosen.
// On success every parameter is forwarded unchanged for the ticket screen.
func Pay(tag string, params Params) (Params, model.PaymentMethodType, error) {
	method, err := ParsePaymentMethod(tag)
	if err != nil {
		return nil, "", err
	}
	return params.Clone(), method, nil
}
