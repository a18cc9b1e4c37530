package booking

import (
	"errors"
	"fmt"
)

// Stage is a step of the booking flow.
type Stage string

const (
	StageSelectingSeats      Stage = "selecting_seats"
	StageSelectingSnacks     Stage = "selecting_snacks"
	StageAwaitingPayment     Stage = "awaiting_payment"
	StagePaymentMethodChosen Stage = "payment_method_chosen"
	StageTicketIssued        Stage = "ticket_issued"
)

// ErrInvalidTransition is returned for any move the flow does not allow.
var ErrInvalidTransition = errors.New("invalid booking transition")

// transitions lists the allowed moves.  The only backward move is the
// snacks -> seats affordance; it keeps the captured selections.
var transitions = map[Stage][]Stage{
	StageSelectingSeats:      {StageSelectingSnacks, StageAwaitingPayment},
	StageSelectingSnacks:     {StageSelectingSeats, StageAwaitingPayment},
	StageAwaitingPayment:     {StagePaymentMethodChosen},
	StagePaymentMethodChosen: {StageTicketIssued},
}

// ParseStage validates a stage name.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := transitions[st]; ok || st == StageTicketIssued {
		return st, nil
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

// Flow tracks the current stage of one booking.
type Flow struct {
	stage Stage
}

// NewFlow starts at seat selection.
func NewFlow() *Flow { return &Flow{stage: StageSelectingSeats} }

// Stage returns the current stage.
func (f *Flow) Stage() Stage { return f.stage }

// Done reports whether the ticket has been issued.
func (f *Flow) Done() bool { return f.stage == StageTicketIssued }

// CanMove reports whether the flow may move to next.
func (f *Flow) CanMove(next Stage) bool {
	for _, s := range transitions[f.stage] {
		if s == next {
			return true
		}
	}
	return false
}

// Move advances the flow or returns ErrInvalidTransition.
func (f *Flow) Move(next Stage) error {
	if !f.CanMove(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, f.stage, next)
	}
	f.stage = next
	return nil
}
