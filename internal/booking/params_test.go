package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

func TestSplitSeats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"A1", []string{"A1"}},
		{"B1,B2", []string{"B1", "B2"}},
		{" B1 , ,B2,, C3 ", []string{"B1", "B2", "C3"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitSeats(tt.in), tt.in)
	}
}

func TestSeatsRoundTrip(t *testing.T) {
	seats := []string{"H6", "A2", "C3"}
	assert.Equal(t, seats, SplitSeats(JoinSeats(seats)))
}

func TestSnacksRoundTrip(t *testing.T) {
	m := map[string]int{"1": 2, "4": 1}
	got, err := DecodeSnacks(EncodeSnacks(m))
	require.NoError(t, err)
	assert.Equal(t, m, got)

	assert.Equal(t, "{}", EncodeSnacks(nil))
}

func TestDecodeSnacks_Invalid(t *testing.T) {
	for _, in := range []string{"{", "not json", `{"1":"two"}`, "[1,2]"} {
		got, err := DecodeSnacks(in)
		assert.Error(t, err, in)
		assert.Nil(t, got, in)
	}
	got, err := DecodeSnacks("")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestOrderParamsRoundTrip(t *testing.T) {
	o := model.Order{
		ID:          "1700000000000-42",
		MovieID:     "1",
		Title:       "Dune: Part Two",
		Seats:       []string{"B1", "B2"},
		SeatsTotal:  46000,
		SnacksTotal: 10000,
		Total:       56000,
		Date:        "15 Nov",
		Time:        "7:30 PM",
		Snacks:      map[string]int{"1": 2},
	}

	p := EncodeOrder(o)
	assert.Equal(t, Params{
		"id":          "1700000000000-42",
		"movieId":     "1",
		"title":       "Dune: Part Two",
		"seats":       "B1,B2",
		"seatsCount":  "2",
		"total":       "56000",
		"snacksTotal": "10000",
		"date":        "15 Nov",
		"time":        "7:30 PM",
		"snacks":      `{"1":2}`,
	}, p)
	got, err := DecodeOrder(p)
	require.NoError(t, err)
	assert.Equal(t, o, got)
}

func TestDecodeOrder_Lenient(t *testing.T) {
	o, err := DecodeOrder(Params{"total": "abc", "snacks": "{", "seats": ""})
	assert.Error(t, err)
	assert.Equal(t, int64(0), o.Total)
	assert.Nil(t, o.Snacks)
	assert.Nil(t, o.Seats)
}
