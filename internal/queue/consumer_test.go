package queue

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

func testEvent() TicketIssuedEvent {
	return NewTicketIssuedEvent(model.Ticket{
		TicketID:   "NMX-12345678A",
		OrderID:    "1700000000000-42",
		MovieID:    "1",
		MovieTitle: "Dune: Part Two",
		Cinema:     "Hall 1",
		Date:       "15 Nov",
		Time:       "7:30 PM",
		Seats:      []string{"B1", "B2"},
		Snacks:     map[string]int{"2": 1, "1": 2},
		Total:      56000,
		IssuedAt:   time.Date(2024, 11, 15, 18, 0, 0, 0, time.UTC),
	}, "sess-1", model.PaymentMomo)
}

func TestFormatLine(t *testing.T) {
	line := FormatLine(testEvent())
	assert.Equal(t,
		`[2024-11-15T18:00:00Z] Ticket issued | ticket=NMX-12345678A | order=1700000000000-42 | movie="Dune: Part Two" | cinema="Hall 1" | slot="15 Nov 7:30 PM" | seats=[B1,B2] | snacks={1:2,2:1} | total=56000 UGX | method=momo`+"\n",
		line)
}

func TestConsumer_Handle(t *testing.T) {
	dir := t.TempDir()
	c := &Consumer{LogDir: filepath.Join(dir, "logs")}

	body := []byte(`{"ticket_id":"NMX-000000001","seats":["A2"],"total":23000,"issued_at":"x"}`)
	require.NoError(t, c.Handle(body))
	require.NoError(t, c.Handle(body))

	b, err := os.ReadFile(filepath.Join(dir, "logs", TicketLogFile))
	require.NoError(t, err)
	lines := 0
	for _, ch := range b {
		if ch == '\n' {
			lines++
		}
	}
	assert.Equal(t, 2, lines)
	assert.Contains(t, string(b), "ticket=NMX-000000001")

	assert.Error(t, c.Handle([]byte("{")))
}

func TestNewTicketIssuedEvent_OmitsEmptySnacks(t *testing.T) {
	ev := NewTicketIssuedEvent(model.Ticket{TicketID: "NMX-000000001", Snacks: map[string]int{}}, "", model.PaymentCard)
	assert.Nil(t, ev.Snacks)
	assert.Equal(t, "card", ev.Method)
}
