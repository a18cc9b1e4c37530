package booking

import (
	"math/rand"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

func testMovie() model.Movie {
	return model.Movie{
		ID:     "1",
		Title:  "Dune: Part Two",
		Status: model.StatusNowShowing,
		ShowTimes: []model.ShowTime{
			{Time: "10:30 AM", Available: true},
			{Time: "7:30 PM", Available: true},
			{Time: "10:15 PM", Available: false},
		},
	}
}

func newTestBooking() *Booking {
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	return New(testMovie(), DefaultLayout(), testSnacks, WithClock(clock), WithRand(rand.New(rand.NewSource(1))))
}

func TestBooking_ProceedWithoutSeats(t *testing.T) {
	b := newTestBooking()
	b.AdjustSnack("1", 2)

	assert.False(t, b.CanProceed())
	_, err := b.Proceed()
	assert.ErrorIs(t, err, ErrNoSeatsSelected)
}

func TestBooking_GrandTotalScenario(t *testing.T) {
	b := newTestBooking()
	b.ToggleSeat("B1")
	b.ToggleSeat("B2")
	b.AdjustSnack("1", 1)
	b.AdjustSnack("1", 1)
	require.NoError(t, b.SelectDate(2))
	require.NoError(t, b.SelectShowTime(1))

	o, err := b.Proceed()
	require.NoError(t, err)
	assert.Equal(t, int64(46000), o.SeatsTotal)
	assert.Equal(t, int64(10000), o.SnacksTotal)
	assert.Equal(t, int64(56000), o.Total)
	assert.Equal(t, []string{"B1", "B2"}, o.Seats)
	assert.Equal(t, map[string]int{"1": 2}, o.Snacks)
	assert.Equal(t, "17 Nov", o.Date)
	assert.Equal(t, "7:30 PM", o.Time)
	assert.Equal(t, "1", o.MovieID)
	assert.Equal(t, "Dune: Part Two", o.Title)
	assert.Regexp(t, regexp.MustCompile(`^1700000000000-\d{1,4}$`), o.ID)
}

func TestBooking_OrderIsCapturedOnce(t *testing.T) {
	b := newTestBooking()
	b.ToggleSeat("C1")
	o, err := b.Proceed()
	require.NoError(t, err)

	b.ToggleSeat("C2")
	b.AdjustSnack("2", 3)

	assert.Equal(t, []string{"C1"}, o.Seats)
	assert.Equal(t, int64(23000), o.Total)
	assert.Empty(t, o.Snacks)
	assert.Equal(t, int64(46000+21000), b.Total())
}

func TestBooking_ShowTimeSelection(t *testing.T) {
	b := newTestBooking()

	assert.ErrorIs(t, b.SelectShowTime(2), ErrShowTimeUnavailable)
	assert.ErrorIs(t, b.SelectShowTime(9), ErrInvalidShowTime)
	assert.ErrorIs(t, b.SelectDate(7), ErrInvalidDate)
	assert.Equal(t, -1, b.ShowTimeIndex())

	b.ToggleSeat("E1")
	o, err := b.Proceed()
	require.NoError(t, err)
	assert.Equal(t, "", o.Time)
	assert.Equal(t, "15 Nov", o.Date)
}
