package booking

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

// Parameter names of the order payload passed from booking to payment and
// from payment to the ticket screen.
const (
	ParamID          = "id"
	ParamMovieID     = "movieId"
	ParamTitle       = "title"
	ParamSeats       = "seats"
	ParamSeatsCount  = "seatsCount"
	ParamTotal       = "total"
	ParamSnacksTotal = "snacksTotal"
	ParamDate        = "date"
	ParamTime        = "time"
	ParamSnacks      = "snacks"
)

// Params is the string-valued payload exchanged between pipeline stages.
// Stages work on model.Order; EncodeOrder and DecodeOrder are the only
// places that deal with the string form.
type Params map[string]string

// Clone returns an independent copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// EncodeOrder renders an order as parameters: seats comma-joined, numbers
// as decimal strings and snacks as a JSON object.
func EncodeOrder(o model.Order) Params {
	return Params{
		ParamID:          o.ID,
		ParamMovieID:     o.MovieID,
		ParamTitle:       o.Title,
		ParamSeats:       JoinSeats(o.Seats),
		ParamSeatsCount:  strconv.Itoa(o.SeatsCount()),
		ParamTotal:       strconv.FormatInt(o.Total, 10),
		ParamSnacksTotal: strconv.FormatInt(o.SnacksTotal, 10),
		ParamDate:        o.Date,
		ParamTime:        o.Time,
		ParamSnacks:      EncodeSnacks(o.Snacks),
	}
}

// DecodeOrder is the inverse of EncodeOrder.  It is lenient: unparsable
// numbers decode as zero and malformed snack JSON decodes as no snacks.
// The returned error only reports the malformed snacks; the order is
// usable either way.  The seat subtotal is not part of the payload and is
// derived as total minus snack total.
func DecodeOrder(p Params) (model.Order, error) {
	total := parseAmount(p[ParamTotal])
	snacksTotal := parseAmount(p[ParamSnacksTotal])
	snacks, err := DecodeSnacks(p[ParamSnacks])
	if err != nil {
		err = fmt.Errorf("snacks param: %w", err)
	}
	return model.Order{
		ID:          p[ParamID],
		MovieID:     p[ParamMovieID],
		Title:       p[ParamTitle],
		Seats:       SplitSeats(p[ParamSeats]),
		SeatsTotal:  total - snacksTotal,
		SnacksTotal: snacksTotal,
		Total:       total,
		Date:        p[ParamDate],
		Time:        p[ParamTime],
		Snacks:      snacks,
	}, err
}

// JoinSeats comma-joins seat labels.
func JoinSeats(seats []string) string { return strings.Join(seats, ",") }

// SplitSeats parses a comma-joined seat list, trimming entries and
// dropping empty ones.  Order is preserved.
func SplitSeats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// EncodeSnacks renders the snack mapping as JSON.  A nil mapping encodes
// as "{}".
func EncodeSnacks(m map[string]int) string {
	if m == nil {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// DecodeSnacks parses a JSON snack mapping.  An empty string yields nil
// with no error; invalid JSON yields nil and the parse error, which
// callers are expected to log rather than surface.
func DecodeSnacks(s string) (map[string]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}
