package booking

import (
	"log"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// Ticket defaults applied when the payload leaves a field out.
const (
	DefaultCinema = "Hall 1"
	DefaultSeat   = "A1"
	DefaultTitle  = "Untitled Movie"
	TicketPrefix  = "NMX-"
)

// TicketGenerator renders tickets from the forwarded order parameters.
// Every call draws a fresh ticket id, so rendering the same order twice
// yields two different visible ids.
type TicketGenerator struct {
	mu   sync.Mutex
	rand *rand.Rand
	now  func() time.Time
}

// NewTicketGenerator returns a generator seeded from the clock.  A nil
// source selects a clock-seeded one.
func NewTicketGenerator(src rand.Source) *TicketGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &TicketGenerator{rand: rand.New(src), now: time.Now}
}

// Render builds the display ticket from the decoded order.  The seat list
// falls back to a single default seat, and a snack payload that is not
// valid JSON is dropped and logged rather than reported.  The optional
// "image" and "cinema" parameters are read alongside the order.
func (g *TicketGenerator) Render(p Params) model.Ticket {
	o, err := DecodeOrder(p)
	if err != nil {
		log.Printf("ticket: %v", err)
	}
	if len(o.Seats) == 0 {
		o.Seats = []string{DefaultSeat}
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	cinema := p["cinema"]
	if cinema == "" {
		cinema = DefaultCinema
	}
	id := g.TicketID()
	return model.Ticket{
		TicketID:   id,
		Code:       id,
		OrderID:    o.ID,
		MovieID:    o.MovieID,
		MovieTitle: o.Title,
		Image:      p["image"],
		Date:       o.Date,
		Time:       o.Time,
		Cinema:     cinema,
		Seats:      o.Seats,
		Total:      o.Total,
		Snacks:     o.Snacks,
		IssuedAt:   g.now().UTC(),
	}
}

// TicketID draws an id of the form NMX- followed by nine upper-case
// base-12 digits.  The value space is bounded and ids are not unique.
func (g *TicketGenerator) TicketID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var b strings.Builder
	b.WriteString(TicketPrefix)
	for i := 0; i < 9; i++ {
		b.WriteString(strings.ToUpper(strconv.FormatInt(int64(g.rand.Intn(12)), 12)))
	}
	return b.String()
}
