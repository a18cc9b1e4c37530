package session

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/moviex-storefront/internal/model"
)

const (
	// DefaultPastAfter is how long after issue a ticket moves to the past tab.
	DefaultPastAfter = 24 * time.Hour
	// DefaultOwnerIdle is how long an owner may go untouched before the
	// sweeper forgets its tickets and methods.
	DefaultOwnerIdle = 7 * 24 * time.Hour

	// MaxTicketsPerOwner and MaxMethodsPerOwner bound each owner's lists;
	// the oldest entries are dropped first.
	MaxTicketsPerOwner = 100
	MaxMethodsPerOwner = 20
)

// TicketList is the tickets tab: issued tickets split by age.
type TicketList struct {
	Upcoming []model.Ticket `json:"upcoming"`
	Past     []model.Ticket `json:"past"`
}

// Wallet keeps issued tickets and saved payment methods per owner key.
// Nothing is persisted.
type Wallet struct {
	mu        sync.Mutex
	tickets   map[string][]model.Ticket
	methods   map[string][]model.PaymentMethod
	seen      map[string]time.Time
	pastAfter time.Duration
	idle      time.Duration
	now       func() time.Time
}

// NewWallet returns an empty wallet.  Non-positive durations select
// DefaultPastAfter and DefaultOwnerIdle.
func NewWallet(pastAfter, idle time.Duration) *Wallet {
	if pastAfter <= 0 {
		pastAfter = DefaultPastAfter
	}
	if idle <= 0 {
		idle = DefaultOwnerIdle
	}
	return &Wallet{
		tickets:   map[string][]model.Ticket{},
		methods:   map[string][]model.PaymentMethod{},
		seen:      map[string]time.Time{},
		pastAfter: pastAfter,
		idle:      idle,
		now:       time.Now,
	}
}

// touch must be called with w.mu held.
func (w *Wallet) touch(owner string) {
	if _, ok := w.seen[owner]; ok || len(w.tickets[owner]) > 0 || len(w.methods[owner]) > 0 {
		w.seen[owner] = w.now()
	}
}

// AddTicket records t for owner.
func (w *Wallet) AddTicket(owner string, t model.Ticket) {
	w.mu.Lock()
	defer w.mu.Unlock()
	list := append(w.tickets[owner], t)
	if n := len(list) - MaxTicketsPerOwner; n > 0 {
		list = append([]model.Ticket(nil), list[n:]...)
	}
	w.tickets[owner] = list
	w.touch(owner)
}

// Tickets returns the owner's tickets, newest first within each tab.
func (w *Wallet) Tickets(owner string) TicketList {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch(owner)
	cutoff := w.now().Add(-w.pastAfter)
	out := TicketList{Upcoming: []model.Ticket{}, Past: []model.Ticket{}}
	list := w.tickets[owner]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].IssuedAt.Before(cutoff) {
			out.Past = append(out.Past, list[i])
		} else {
			out.Upcoming = append(out.Upcoming, list[i])
		}
	}
	return out
}

// FindTicket returns the owner's ticket with the given code.
func (w *Wallet) FindTicket(owner, code string) (model.Ticket, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch(owner)
	for _, t := range w.tickets[owner] {
		if t.Code == code {
			return t, true
		}
	}
	return model.Ticket{}, false
}

// AddMethod saves a payment method for owner.
func (w *Wallet) AddMethod(owner string, m model.PaymentMethod) {
	w.mu.Lock()
	defer w.mu.Unlock()
	list := append(w.methods[owner], m)
	if n := len(list) - MaxMethodsPerOwner; n > 0 {
		list = append([]model.PaymentMethod(nil), list[n:]...)
	}
	w.methods[owner] = list
	w.touch(owner)
}

// Methods returns a copy of the owner's saved payment methods.
func (w *Wallet) Methods(owner string) []model.PaymentMethod {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touch(owner)
	out := make([]model.PaymentMethod, len(w.methods[owner]))
	copy(out, w.methods[owner])
	return out
}

// Owners returns the number of owners with stored data.
func (w *Wallet) Owners() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

// Sweep forgets owners untouched for longer than the idle period and
// returns how many were removed.
func (w *Wallet) Sweep() int {
	cutoff := w.now().Add(-w.idle)
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for owner, seen := range w.seen {
		if seen.Before(cutoff) {
			delete(w.seen, owner)
			delete(w.tickets, owner)
			delete(w.methods, owner)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (w *Wallet) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			w.Sweep()
		}
	}
}
