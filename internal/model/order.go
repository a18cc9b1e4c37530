package model

// Order is the aggregate captured when the customer proceeds from the
// booking screen to payment.  It is never stored; it travels forward
// through payment to the ticket screen.  All amounts are in UGX and are
// fixed at capture time.
//
// Fields:
//  ID          – locally generated order id ("<unix-millis>-<rand>").
//  MovieID     – movie being booked.
//  Title       – movie title at capture time.
//  Seats       – selected seat labels in selection order.
//  SeatsTotal  – seat subtotal.
//  SnacksTotal – snack subtotal.
//  Total       – SeatsTotal + SnacksTotal.
//  Date        – chosen date label, e.g. "15 Nov".
//  Time        – chosen show-time label, empty when none was chosen.
//  Snacks      – snack id to quantity; never contains zero quantities.
type Order struct {
	ID          string         `json:"id"`
	MovieID     string         `json:"movieId"`
	Title       string         `json:"title"`
	Seats       []string       `json:"seats"`
	SeatsTotal  int64          `json:"seatsTotal"`
	SnacksTotal int64          `json:"snacksTotal"`
	Total       int64          `json:"total"`
	Date        string         `json:"date"`
	Time        string         `json:"time"`
	Snacks      map[string]int `json:"snacks"`
}

// SeatsCount returns the number of selected seats.
func (o Order) SeatsCount() int { return len(o.Seats) }
