package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/moviex-storefront/internal/booking"
	"github.com/iliyamo/moviex-storefront/internal/catalog"
	"github.com/iliyamo/moviex-storefront/internal/middleware"
	"github.com/iliyamo/moviex-storefront/internal/model"
	q "github.com/iliyamo/moviex-storefront/internal/queue"
	"github.com/iliyamo/moviex-storefront/internal/repository"
	"github.com/iliyamo/moviex-storefront/internal/service"
	"github.com/iliyamo/moviex-storefront/internal/session"
)

// BookingHandler drives booking sessions through seat and snack
// selection, payment and ticket issue.
type BookingHandler struct {
	Catalog   *catalog.Catalog
	Sessions  *session.Store
	Wallet    *session.Wallet
	Snacks    []model.SnackItem
	Layout    booking.SeatLayout
	Tickets   *booking.TicketGenerator
	Publisher service.TicketPublisher
}

// errStage is returned from session callbacks when the flow forbids the
// requested action.
var (
	errStage  = errors.New("not allowed in the current booking stage")
	errIssued = errors.New("ticket already issued")
)

type createBookingRequest struct {
	MovieID string `json:"movieId" validate:"required"`
}

type snackRequest struct {
	ID    string `json:"id" validate:"required"`
	Delta int    `json:"delta" validate:"min=-100,max=100"`
}

type scheduleRequest struct {
	DateIndex *int `json:"dateIndex"`
	TimeIndex *int `json:"timeIndex"`
}

type stageRequest struct {
	Stage string `json:"stage" validate:"required,oneof=selecting_seats selecting_snacks"`
}

type paymentRequest struct {
	Method string `json:"method"`
}

// BookingView is the session summary returned by most booking endpoints.
type BookingView struct {
	ID          string         `json:"id"`
	MovieID     string         `json:"movieId"`
	Title       string         `json:"title"`
	Stage       booking.Stage  `json:"stage"`
	Seats       []string       `json:"seats"`
	SeatsTotal  int64          `json:"seatsTotal"`
	Snacks      map[string]int `json:"snacks"`
	SnacksTotal int64          `json:"snacksTotal"`
	Total       int64          `json:"total"`
	DateIndex   int            `json:"dateIndex"`
	Date        string         `json:"date"`
	TimeIndex   *int           `json:"timeIndex"`
	Time        string         `json:"time,omitempty"`
	CanProceed  bool           `json:"canProceed"`
	Order       *model.Order   `json:"order,omitempty"`
	Params      booking.Params `json:"params,omitempty"`
	Method      string         `json:"method,omitempty"`
	Ticket      *model.Ticket  `json:"ticket,omitempty"`
}

func viewOf(s *session.Session) BookingView {
	b := s.Booking
	seats := b.Seats.Selection()
	snacks := b.Snack.Selection()
	v := BookingView{
		ID:          s.ID,
		MovieID:     b.Movie.ID,
		Title:       b.Movie.Title,
		Stage:       s.Flow.Stage(),
		Seats:       seats.Seats,
		SeatsTotal:  seats.Subtotal,
		Snacks:      snacks.Items,
		SnacksTotal: snacks.Total,
		Total:       b.Total(),
		DateIndex:   b.DateIndex(),
		Date:        booking.DateSlots[b.DateIndex()].Label(),
		CanProceed:  b.CanProceed(),
		Order:       s.Order,
		Params:      s.Params,
		Method:      string(s.Method),
		Ticket:      s.Ticket,
	}
	if i := b.ShowTimeIndex(); i >= 0 {
		v.TimeIndex = &i
		v.Time = b.Movie.ShowTimes[i].Time
	}
	return v
}

// clientKey identifies the customer for the tickets tab.
func clientKey(c echo.Context) string {
	return strings.TrimSpace(c.Request().Header.Get(middleware.ClientHeader))
}

// ListSnacks returns the concession catalog.
func (h *BookingHandler) ListSnacks(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Snacks})
}

// ListDates returns the bookable date slots.
func (h *BookingHandler) ListDates(c echo.Context) error {
	type slot struct {
		booking.DateSlot
		Label string `json:"label"`
	}
	out := make([]slot, len(booking.DateSlots))
	for i, d := range booking.DateSlots {
		out[i] = slot{DateSlot: d, Label: d.Label()}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Create opens a booking session for a movie that is now showing.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	m, err := h.Catalog.Get(req.MovieID)
	switch {
	case errors.Is(err, catalog.ErrLoading):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "loading"})
	case errors.Is(err, repository.ErrMovieNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "catalog error"})
	}
	if !m.IsNowShowing() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "movie is not showing yet"})
	}

	s := h.Sessions.Create(clientKey(c), booking.New(m, h.Layout, h.Snacks))
	return h.apply(c, s.ID, http.StatusCreated, func(*session.Session) error { return nil })
}

// Get returns the session summary.
func (h *BookingHandler) Get(c echo.Context) error {
	return h.update(c, http.StatusOK, func(*session.Session) error { return nil })
}

// Seats returns the seat grid of the session.
func (h *BookingHandler) Seats(c echo.Context) error {
	var (
		grid  []model.SeatRow
		price int64
	)
	err := h.Sessions.With(c.Param("id"), func(s *session.Session) error {
		grid = s.Booking.Seats.Grid()
		price = s.Booking.Seats.Price()
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": grid, "price": price, "maxSelection": h.Layout.MaxSelection})
}

// ToggleSeat toggles one seat.  Occupied, unknown and over-cap seats are
// left unchanged without an error.
func (h *BookingHandler) ToggleSeat(c echo.Context) error {
	label := c.Param("seat")
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if !selecting(s) {
			return errStage
		}
		s.Booking.ToggleSeat(label)
		return nil
	})
}

// AdjustSnack adds delta to one snack quantity.
func (h *BookingHandler) AdjustSnack(c echo.Context) error {
	var req snackRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if !selecting(s) {
			return errStage
		}
		s.Booking.AdjustSnack(req.ID, req.Delta)
		return nil
	})
}

// Schedule picks the date slot and, optionally, a show-time.
func (h *BookingHandler) Schedule(c echo.Context) error {
	var req scheduleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if !selecting(s) {
			return errStage
		}
		if req.DateIndex != nil {
			if err := s.Booking.SelectDate(*req.DateIndex); err != nil {
				return err
			}
		}
		if req.TimeIndex != nil {
			return s.Booking.SelectShowTime(*req.TimeIndex)
		}
		return nil
	})
}

// SetStage moves between the seat and snack steps.  Selections are kept.
func (h *BookingHandler) SetStage(c echo.Context) error {
	var req stageRequest
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	next, err := booking.ParseStage(req.Stage)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if s.Flow.Stage() == next {
			return nil
		}
		return s.Flow.Move(next)
	})
}

// Proceed captures the order and returns it with its parameter form.
func (h *BookingHandler) Proceed(c echo.Context) error {
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if !selecting(s) {
			return errStage
		}
		o, err := s.Booking.Proceed()
		if err != nil {
			return err
		}
		if err := s.Flow.Move(booking.StageAwaitingPayment); err != nil {
			return err
		}
		s.Order = &o
		s.Params = booking.EncodeOrder(o)
		return nil
	})
}

// Pay runs the payment stub on the captured order.
func (h *BookingHandler) Pay(c echo.Context) error {
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	return h.update(c, http.StatusOK, func(s *session.Session) error {
		if !s.Flow.CanMove(booking.StagePaymentMethodChosen) {
			return errStage
		}
		params, method, err := booking.Pay(req.Method, s.Params)
		if err != nil {
			return err
		}
		_ = s.Flow.Move(booking.StagePaymentMethodChosen)
		s.Params = params
		s.Method = method
		return nil
	})
}

// IssueTicket renders the ticket from the forwarded parameters, stores it
// in the owner's wallet and publishes a ticket.issued event.
func (h *BookingHandler) IssueTicket(c echo.Context) error {
	var (
		tk     model.Ticket
		owner  string
		method model.PaymentMethodType
	)
	id := c.Param("id")
	err := h.Sessions.With(id, func(s *session.Session) error {
		if s.Flow.Done() {
			return errIssued
		}
		if !s.Flow.CanMove(booking.StageTicketIssued) {
			return errStage
		}
		p := s.Params.Clone()
		if p["image"] == "" {
			p["image"] = s.Booking.Movie.Image
		}
		tk = h.Tickets.Render(p)
		_ = s.Flow.Move(booking.StageTicketIssued)
		s.Ticket = &tk
		owner, method = s.Owner, s.Method
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	h.Wallet.AddTicket(owner, tk)
	h.publish(q.NewTicketIssuedEvent(tk, id, method))
	return c.JSON(http.StatusCreated, tk)
}

// Cancel abandons a booking session.  Issued tickets stay in the wallet.
func (h *BookingHandler) Cancel(c echo.Context) error {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BookingHandler) publish(ev q.TicketIssuedEvent) {
	if h.Publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Publisher.PublishTicketIssued(ctx, ev); err != nil {
			log.Printf("ticket %s: publish failed: %v", ev.TicketID, err)
		}
	}()
}

func selecting(s *session.Session) bool {
	st := s.Flow.Stage()
	return st == booking.StageSelectingSeats || st == booking.StageSelectingSnacks
}

// update runs fn on the session named by the :id parameter and responds
// with the resulting view.
func (h *BookingHandler) update(c echo.Context, status int, fn func(*session.Session) error) error {
	return h.apply(c, c.Param("id"), status, fn)
}

func (h *BookingHandler) apply(c echo.Context, id string, status int, fn func(*session.Session) error) error {
	var view BookingView
	err := h.Sessions.With(id, func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(status, view)
}

// fail maps booking and session errors to HTTP responses.
func (h *BookingHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrNoSeatsSelected):
		return c.JSON(http.StatusConflict, echo.Map{"error": "select at least one seat"})
	case errors.Is(err, errStage), errors.Is(err, errIssued), errors.Is(err, booking.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNoPaymentMethod), errors.Is(err, booking.ErrUnknownPaymentMethod):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrInvalidDate), errors.Is(err, booking.ErrInvalidShowTime):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrShowTimeUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
