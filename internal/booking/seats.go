// Package booking implements the storefront's booking pipeline: seat and
// snack selection, order capture, the simulated payment step and ticket
// rendering.  Everything here is synchronous and owned by a single
// booking session; nothing is reserved server-side, so two sessions can
// select the same seat without noticing each other.
package booking

import (
	"github.com/iliyamo/moviex-storefront/internal/model"
)

// Seat map defaults used by the storefront's single hall.
const (
	SeatPrice    int64 = 23000 // UGX per seat
	SeatsPerRow        = 12
	MaxSelection       = 10
)

// DefaultRows are the row labels of the hall, front to back.
var DefaultRows = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// DefaultOccupied is the fixed set of seats that are already taken.
var DefaultOccupied = []string{"A1", "B4", "C7", "D2", "E5", "F8", "G3", "H6"}

// SeatLayout describes a hall grid and its pricing.
type SeatLayout struct {
	Rows         []string
	SeatsPerRow  int
	Price        int64
	Occupied     []string
	MaxSelection int
}

// DefaultLayout returns the storefront's hall layout.
func DefaultLayout() SeatLayout {
	return SeatLayout{
		Rows:         DefaultRows,
		SeatsPerRow:  SeatsPerRow,
		Price:        SeatPrice,
		Occupied:     DefaultOccupied,
		MaxSelection: MaxSelection,
	}
}

// SeatSelection is emitted after every toggle.
type SeatSelection struct {
	Seats    []string `json:"seats"`
	Subtotal int64    `json:"subtotal"`
}

// SeatMap tracks the seats a customer has selected.  The occupied set is
// fixed at construction and never mutated.
type SeatMap struct {
	layout   SeatLayout
	onGrid   map[string]bool
	occupied map[string]bool
	selected []string // insertion order
}

// NewSeatMap builds an empty selection for the given layout.
func NewSeatMap(layout SeatLayout) *SeatMap {
	if layout.MaxSelection <= 0 {
		layout.MaxSelection = MaxSelection
	}
	m := &SeatMap{
		layout:   layout,
		onGrid:   make(map[string]bool, len(layout.Rows)*layout.SeatsPerRow),
		occupied: make(map[string]bool, len(layout.Occupied)),
	}
	for _, row := range layout.Rows {
		for n := 1; n <= layout.SeatsPerRow; n++ {
			m.onGrid[model.SeatID{Row: row, Number: n}.String()] = true
		}
	}
	for _, id := range layout.Occupied {
		m.occupied[id] = true
	}
	return m
}

// Toggle flips the selection state of a seat.  Occupied seats and seats
// that are not on the grid are ignored.  A new seat is only added while
// the selection is below the cap; at the cap the call is a silent no-op.
// The returned value always reflects the full current selection.
func (m *SeatMap) Toggle(label string) SeatSelection {
	id, ok := m.normalize(label)
	if !ok || m.occupied[id] {
		return m.Selection()
	}
	if i := m.indexOf(id); i >= 0 {
		m.selected = append(m.selected[:i], m.selected[i+1:]...)
	} else if len(m.selected) < m.layout.MaxSelection {
		m.selected = append(m.selected, id)
	}
	return m.Selection()
}

// Selection returns a copy of the current selection and its subtotal.
func (m *SeatMap) Selection() SeatSelection {
	seats := make([]string, len(m.selected))
	copy(seats, m.selected)
	return SeatSelection{Seats: seats, Subtotal: int64(len(seats)) * m.layout.Price}
}

// Status reports how a seat should be drawn.
func (m *SeatMap) Status(label string) model.SeatStatus {
	id, ok := m.normalize(label)
	switch {
	case !ok, m.occupied[id]:
		return model.SeatOccupied
	case m.indexOf(id) >= 0:
		return model.SeatSelected
	}
	return model.SeatAvailable
}

// Grid renders every row of the hall with the status of each seat.
func (m *SeatMap) Grid() []model.SeatRow {
	rows := make([]model.SeatRow, 0, len(m.layout.Rows))
	for _, row := range m.layout.Rows {
		cells := make([]model.SeatCell, 0, m.layout.SeatsPerRow)
		for n := 1; n <= m.layout.SeatsPerRow; n++ {
			id := model.SeatID{Row: row, Number: n}.String()
			cells = append(cells, model.SeatCell{ID: id, Status: m.Status(id)})
		}
		rows = append(rows, model.SeatRow{Label: row, Seats: cells})
	}
	return rows
}

// Price returns the unit seat price of the layout.
func (m *SeatMap) Price() int64 { return m.layout.Price }

func (m *SeatMap) normalize(label string) (string, bool) {
	id, err := model.ParseSeatID(label)
	if err != nil {
		return "", false
	}
	s := id.String()
	return s, m.onGrid[s]
}

func (m *SeatMap) indexOf(id string) int {
	for i, s := range m.selected {
		if s == id {
			return i
		}
	}
	return -1
}
