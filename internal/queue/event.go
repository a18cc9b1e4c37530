// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

import "github.com/iliyamo/moviex-storefront/internal/model"

// TicketQueueName is the durable queue ticket events are routed to.
const TicketQueueName = "ticket.issued"

// TicketIssuedEvent is published when the ticket screen issues a ticket.
// It carries everything a consumer needs to log or notify without asking
// the storefront for more.
type TicketIssuedEvent struct {
	TicketID   string         `json:"ticket_id"`
	OrderID    string         `json:"order_id"`
	SessionID  string         `json:"session_id,omitempty"`
	MovieID    string         `json:"movie_id"`
	MovieTitle string         `json:"movie_title"`
	Cinema     string         `json:"cinema"`
	Date       string         `json:"date"`
	Time       string         `json:"time"`
	Seats      []string       `json:"seats"`
	Snacks     map[string]int `json:"snacks,omitempty"`
	Total      int64          `json:"total"`
	Method     string         `json:"payment_method"`
	IssuedAt   string         `json:"issued_at"`
}

// NewTicketIssuedEvent builds the event for t.
func NewTicketIssuedEvent(t model.Ticket, sessionID string, method model.PaymentMethodType) TicketIssuedEvent {
	ev := TicketIssuedEvent{
		TicketID:   t.TicketID,
		OrderID:    t.OrderID,
		SessionID:  sessionID,
		MovieID:    t.MovieID,
		MovieTitle: t.MovieTitle,
		Cinema:     t.Cinema,
		Date:       t.Date,
		Time:       t.Time,
		Seats:      t.Seats,
		Total:      t.Total,
		Method:     string(method),
		IssuedAt:   t.IssuedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
	if t.HasSnacks() {
		ev.Snacks = t.Snacks
	}
	return ev
}
