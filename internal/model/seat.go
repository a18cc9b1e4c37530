package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SeatStatus is the display state of a seat on the seat map.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatSelected  SeatStatus = "selected"
	SeatOccupied  SeatStatus = "occupied"
)

// SeatID identifies a seat by row letter and column number.  Its string
// form ("B2") is what travels in the order payload.
type SeatID struct {
	Row    string // row label, upper case
	Number int    // 1-based column number
}

// String renders the seat as row followed by number, e.g. "C7".
func (s SeatID) String() string { return s.Row + strconv.Itoa(s.Number) }

// ParseSeatID parses labels such as "A1" or "h12".  The row part must be
// one or more ASCII letters and the number part a positive integer.
func ParseSeatID(label string) (SeatID, error) {
	s := strings.ToUpper(strings.TrimSpace(label))
	i := 0
	for i < len(s) && s[i] >= 'A' && s[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(s) {
		return SeatID{}, fmt.Errorf("invalid seat label %q", label)
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil || n <= 0 {
		return SeatID{}, fmt.Errorf("invalid seat label %q", label)
	}
	return SeatID{Row: s[:i], Number: n}, nil
}

// SeatCell is one seat in a rendered seat map.
type SeatCell struct {
	ID     string     `json:"id"`
	Status SeatStatus `json:"status"`
}

// SeatRow is a labelled row of seat cells.
type SeatRow struct {
	Label string     `json:"label"`
	Seats []SeatCell `json:"seats"`
}
