package model

import "time"

// Ticket is the user-facing artifact rendered on the ticket screen.  Code
// is the payload of the scannable QR image and is simply the ticket id.
type Ticket struct {
	TicketID   string         `json:"ticketId"`
	Code       string         `json:"code"`
	OrderID    string         `json:"orderId,omitempty"`
	MovieID    string         `json:"movieId,omitempty"`
	MovieTitle string         `json:"movieTitle"`
	Image      string         `json:"image,omitempty"`
	Date       string         `json:"date"`
	Time       string         `json:"time"`
	Cinema     string         `json:"cinema"`
	Seats      []string       `json:"seats"`
	Total      int64          `json:"total"`
	Snacks     map[string]int `json:"snacks,omitempty"`
	IssuedAt   time.Time      `json:"issuedAt"`
}

// HasSnacks reports whether the ticket carries at least one snack line.
func (t Ticket) HasSnacks() bool { return len(t.Snacks) > 0 }

// PaymentMethodType enumerates the payment options offered at checkout.
type PaymentMethodType string

const (
	PaymentCard PaymentMethodType = "card"
	PaymentMomo PaymentMethodType = "momo"
)

// PaymentMethod is a saved payment method as entered in the profile
// settings.  Card numbers are masked before storage and phone numbers are
// normalised to the +256 prefix.  No details are ever charged.
type PaymentMethod struct {
	ID          string            `json:"id"`
	Type        PaymentMethodType `json:"type"`
	CardNumber  string            `json:"cardNumber,omitempty"`
	CardName    string            `json:"cardName,omitempty"`
	CardExpiry  string            `json:"cardExpiry,omitempty"`
	PhoneNumber string            `json:"phoneNumber,omitempty"`
	Provider    string            `json:"provider,omitempty"`
}
