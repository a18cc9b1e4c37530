package booking

import (
	"bytes"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

var ticketIDPattern = regexp.MustCompile(`^NMX-[0-9AB]{9}$`)

func TestTicketGenerator_Render(t *testing.T) {
	g := NewTicketGenerator(rand.NewSource(3))
	p := Params{
		"id":          "1700000000000-42",
		"movieId":     "1",
		"title":       "Dune: Part Two",
		"seats":       "B1, B2",
		"total":       "56000",
		"snacksTotal": "10000",
		"date":        "15 Nov",
		"time":        "7:30 PM",
		"snacks":      `{"1":2}`,
	}

	tk := g.Render(p)

	assert.Equal(t, "Dune: Part Two", tk.MovieTitle)
	assert.Equal(t, []string{"B1", "B2"}, tk.Seats)
	assert.Equal(t, int64(56000), tk.Total)
	assert.Equal(t, map[string]int{"1": 2}, tk.Snacks)
	assert.True(t, tk.HasSnacks())
	assert.Equal(t, DefaultCinema, tk.Cinema)
	assert.Equal(t, "1700000000000-42", tk.OrderID)
	assert.Regexp(t, ticketIDPattern, tk.TicketID)
	assert.Equal(t, tk.TicketID, tk.Code)
	assert.NotEqual(t, tk.OrderID, tk.TicketID)
}

func TestTicketGenerator_Defaults(t *testing.T) {
	g := NewTicketGenerator(rand.NewSource(3))

	tk := g.Render(Params{"snacks": "{not json"})

	assert.Equal(t, []string{DefaultSeat}, tk.Seats)
	assert.Equal(t, DefaultTitle, tk.MovieTitle)
	assert.Nil(t, tk.Snacks)
	assert.False(t, tk.HasSnacks())
	assert.Equal(t, int64(0), tk.Total)
}

func TestTicketGenerator_FreshIDPerRender(t *testing.T) {
	g := NewTicketGenerator(rand.NewSource(11))
	p := Params{"seats": "A2"}

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id := g.Render(p).TicketID
		require.Regexp(t, ticketIDPattern, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("NMX-123456789", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	_, err = QRCodePNG("", 128)
	assert.ErrorIs(t, err, ErrEmptyCode)
}

func TestTicketGenerator_RendersDecodedOrder(t *testing.T) {
	g := NewTicketGenerator(rand.NewSource(5))
	o := model.Order{
		ID:          "1700000000000-7",
		MovieID:     "2",
		Title:       "Oppenheimer",
		Seats:       []string{"C3", "C4"},
		SeatsTotal:  46000,
		SnacksTotal: 3000,
		Total:       49000,
		Date:        "16 Nov",
		Time:        "1:00 PM",
		Snacks:      map[string]int{"3": 1},
	}

	tk := g.Render(EncodeOrder(o))

	assert.Equal(t, o.ID, tk.OrderID)
	assert.Equal(t, o.MovieID, tk.MovieID)
	assert.Equal(t, o.Seats, tk.Seats)
	assert.Equal(t, o.Total, tk.Total)
	assert.Equal(t, o.Snacks, tk.Snacks)
	assert.Equal(t, o.Date, tk.Date)
	assert.Equal(t, o.Time, tk.Time)
}
