// Package session holds the server-side state of booking screens.  A
// session owns one booking and is reachable only through its id; the
// store forgets sessions that have been idle longer than its TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/moviex-storefront/internal/booking"
	"github.com/iliyamo/moviex-storefront/internal/model"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("booking session not found")

// DefaultTTL is the idle lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Session is one booking in progress.  Order is set by proceed, Params
// and Method by the payment step and Ticket once the ticket is issued.
type Session struct {
	ID      string
	Owner   string
	Booking *booking.Booking
	Flow    *booking.Flow
	Order   *model.Order
	Params  booking.Params
	Method  model.PaymentMethodType
	Ticket  *model.Ticket

	CreatedAt time.Time
	touched   time.Time
}

// Store is an in-memory, mutex-guarded session table.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
}

// entry serialises access to one session so that concurrent requests on
// the same id do not interleave inside the booking.
type entry struct {
	mu sync.Mutex
	s  *Session
}

// NewStore returns an empty store.  A non-positive ttl selects DefaultTTL.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{sessions: map[string]*entry{}, ttl: ttl, now: time.Now}
}

// Create registers a new session for b.  An empty owner makes the session
// its own owner.  Callers that change the session later must go through
// With.
func (st *Store) Create(owner string, b *booking.Booking) *Session {
	now := st.now()
	id := uuid.NewString()
	if owner == "" {
		owner = id
	}
	s := &Session{
		ID:        id,
		Owner:     owner,
		Booking:   b,
		Flow:      booking.NewFlow(),
		CreatedAt: now,
		touched:   now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = &entry{s: s}
	st.mu.Unlock()
	return s
}

func (st *Store) lookup(id string) (*entry, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// With runs fn with exclusive access to the session id and marks the
// session as used.  The error from fn is returned unchanged.
func (st *Store) With(id string, fn func(*Session) error) error {
	e, err := st.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.s.touched = st.now()
	return fn(e.s)
}

// Delete forgets id, or returns ErrNotFound.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how
// many were removed.
func (st *Store) Sweep() int {
	cutoff := st.now().Add(-st.ttl)
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, e := range st.sessions {
		e.mu.Lock()
		idle := e.s.touched.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			st.Sweep()
		}
	}
}
