package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

func newTestRegistrar() *MethodRegistrar {
	r := NewMethodRegistrar(nil)
	r.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return r
}

func TestMethodRegistrar_AddCard(t *testing.T) {
	r := newTestRegistrar()

	m, err := r.AddCard(CardForm{Number: "4111 1111 1111 1234", Name: "J Doe", Expiry: "09/27", CVC: "123"})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentMethod{
		ID:         "card_1700000000000",
		Type:       model.PaymentCard,
		CardNumber: "**** **** **** 1234",
		CardName:   "J Doe",
		CardExpiry: "09/27",
	}, m)
}

func TestMethodRegistrar_CardErrors(t *testing.T) {
	r := newTestRegistrar()
	tests := []struct {
		name  string
		form  CardForm
		field string
	}{
		{"missing name", CardForm{Number: "4111111111111", Expiry: "01/30", CVC: "1"}, "cardName"},
		{"short number", CardForm{Number: "411111111111", Name: "x", Expiry: "01/30", CVC: "1"}, "cardNumber"},
		{"long number", CardForm{Number: "41111111111111111111", Name: "x", Expiry: "01/30", CVC: "1"}, "cardNumber"},
		{"bad month", CardForm{Number: "4111111111111", Name: "x", Expiry: "13/30", CVC: "1"}, "cardExpiry"},
		{"bad format", CardForm{Number: "4111111111111", Name: "x", Expiry: "1/30", CVC: "1"}, "cardExpiry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.AddCard(tt.form)
			var fe FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
		})
	}
}

func TestMethodRegistrar_AddMomo(t *testing.T) {
	r := newTestRegistrar()

	m, err := r.AddMomo(MomoForm{Phone: "077-123-4567", Provider: "MTN"})
	require.NoError(t, err)
	assert.Equal(t, "+256771234567", m.PhoneNumber)
	assert.Equal(t, "momo_1700000000000", m.ID)
	assert.Equal(t, model.PaymentMomo, m.Type)

	_, err = r.AddMomo(MomoForm{Phone: "07712345", Provider: "Vodafone"})
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "please enter a valid 10-digit mobile number", fe["phoneNumber"])
	assert.Contains(t, fe["provider"], "MTN Airtel")
}
