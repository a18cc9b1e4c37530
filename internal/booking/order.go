package booking

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

var (
	// ErrNoSeatsSelected is returned by Proceed when the selection is empty.
	// The storefront disables the proceed action in that state.
	ErrNoSeatsSelected = errors.New("no seats selected")
	// ErrInvalidDate indicates a date index outside the offered slots.
	ErrInvalidDate = errors.New("invalid date slot")
	// ErrInvalidShowTime indicates a show-time index outside the movie's list.
	ErrInvalidShowTime = errors.New("invalid show time")
	// ErrShowTimeUnavailable indicates a show-time that is listed but closed.
	ErrShowTimeUnavailable = errors.New("show time unavailable")
)

// DateSlot is one bookable day on the booking screen.
type DateSlot struct {
	Weekday string `json:"date"`
	Day     string `json:"day"`
	Month   string `json:"month"`
}

// Label is the value carried in the order payload, e.g. "15 Nov".
func (d DateSlot) Label() string { return d.Day + " " + d.Month }

// DateSlots are the seven days offered for booking.
var DateSlots = []DateSlot{
	{Weekday: "Mon", Day: "15", Month: "Nov"},
	{Weekday: "Tue", Day: "16", Month: "Nov"},
	{Weekday: "Wed", Day: "17", Month: "Nov"},
	{Weekday: "Thu", Day: "18", Month: "Nov"},
	{Weekday: "Fri", Day: "19", Month: "Nov"},
	{Weekday: "Sat", Day: "20", Month: "Nov"},
	{Weekday: "Sun", Day: "21", Month: "Nov"},
}

// Booking combines the seat map and snack cart for one movie together with
// the chosen date and show-time.  It is the state behind a booking screen.
type Booking struct {
	Movie model.Movie
	Seats *SeatMap
	Snack *SnackCart

	seatsTotal  int64
	snacksTotal int64
	snackItems  map[string]int
	dateIndex   int
	timeIndex   int // -1 when no show-time is chosen

	now  func() time.Time
	rand *rand.Rand
}

// Option customises a Booking.
type Option func(*Booking)

// WithClock overrides the time source used for order ids.
func WithClock(now func() time.Time) Option { return func(b *Booking) { b.now = now } }

// WithRand overrides the random source used for order ids.
func WithRand(r *rand.Rand) Option { return func(b *Booking) { b.rand = r } }

// New starts a booking for movie with an empty selection, the first date
// slot and no show-time.
func New(movie model.Movie, layout SeatLayout, catalog []model.SnackItem, opts ...Option) *Booking {
	b := &Booking{
		Movie:      movie,
		Seats:      NewSeatMap(layout),
		Snack:      NewSnackCart(catalog),
		snackItems: map[string]int{},
		timeIndex:  -1,
		now:        time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	if b.rand == nil {
		b.rand = rand.New(rand.NewSource(b.now().UnixNano()))
	}
	return b
}

// ToggleSeat forwards to the seat map and records the emitted subtotal.
func (b *Booking) ToggleSeat(label string) SeatSelection {
	sel := b.Seats.Toggle(label)
	b.seatsTotal = sel.Subtotal
	return sel
}

// AdjustSnack forwards to the snack cart and records the emitted total.
func (b *Booking) AdjustSnack(id string, delta int) SnackSelection {
	sel := b.Snack.Adjust(id, delta)
	b.snacksTotal = sel.Total
	b.snackItems = sel.Items
	return sel
}

// SelectDate chooses one of DateSlots.
func (b *Booking) SelectDate(i int) error {
	if i < 0 || i >= len(DateSlots) {
		return ErrInvalidDate
	}
	b.dateIndex = i
	return nil
}

// SelectShowTime chooses one of the movie's show-times.  Unavailable
// slots are refused.
func (b *Booking) SelectShowTime(i int) error {
	if i < 0 || i >= len(b.Movie.ShowTimes) {
		return ErrInvalidShowTime
	}
	if !b.Movie.ShowTimes[i].Available {
		return ErrShowTimeUnavailable
	}
	b.timeIndex = i
	return nil
}

// DateIndex returns the chosen date slot index.
func (b *Booking) DateIndex() int { return b.dateIndex }

// ShowTimeIndex returns the chosen show-time index, or -1.
func (b *Booking) ShowTimeIndex() int { return b.timeIndex }

// Total is the running grand total shown in the booking footer.
func (b *Booking) Total() int64 { return b.seatsTotal + b.snacksTotal }

// CanProceed reports whether the proceed action is enabled.
func (b *Booking) CanProceed() bool { return len(b.Seats.Selection().Seats) > 0 }

// Proceed captures the current selection into an Order.  The totals are
// the latest values emitted by the seat map and snack cart; the order does
// not change afterwards even if the booking does.
func (b *Booking) Proceed() (model.Order, error) {
	seats := b.Seats.Selection().Seats
	if len(seats) == 0 {
		return model.Order{}, ErrNoSeatsSelected
	}
	snacks := make(map[string]int, len(b.snackItems))
	for id, q := range b.snackItems {
		snacks[id] = q
	}
	var showTime string
	if b.timeIndex >= 0 && b.timeIndex < len(b.Movie.ShowTimes) {
		showTime = b.Movie.ShowTimes[b.timeIndex].Time
	}
	var date string
	if b.dateIndex >= 0 && b.dateIndex < len(DateSlots) {
		date = DateSlots[b.dateIndex].Label()
	}
	return model.Order{
		ID:          b.orderID(),
		MovieID:     b.Movie.ID,
		Title:       b.Movie.Title,
		Seats:       seats,
		SeatsTotal:  b.seatsTotal,
		SnacksTotal: b.snacksTotal,
		Total:       b.seatsTotal + b.snacksTotal,
		Date:        date,
		Time:        showTime,
		Snacks:      snacks,
	}, nil
}

// orderID combines the capture time with a random suffix below 10000.
// Two orders captured in the same millisecond can collide.
func (b *Booking) orderID() string {
	return fmt.Sprintf("%d-%d", b.now().UnixMilli(), b.rand.Intn(10000))
}
