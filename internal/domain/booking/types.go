package booking

import (
	"time"

	"github.com/google/uuid"
)

type SlotState int

const (
	SlotNotFound SlotState = iota
	SlotAlreadyBooked
	SlotBookable
	SlotUnavailable
)

func (s SlotState) String() string {
	switch s {
	case SlotAlreadyBooked:
		return "already_booked"
	case SlotBookable:
		return "bookable"
	case SlotUnavailable:
		return "unavailable"
	default:
		return "not_found"
	}
}

// Reason explains how a cycle ended.
type Reason string

const (
	ReasonBooked          Reason = "booked"
	ReasonAlreadyBooked   Reason = "already_booked"
	ReasonNoClassToday    Reason = "no_class_today"
	ReasonEventNotFound   Reason = "event_not_found"
	ReasonSlotNotFound    Reason = "slot_not_found"
	ReasonSlotUnavailable Reason = "slot_unavailable"
	ReasonNotConfirmed    Reason = "not_confirmed"
	ReasonLoginFailed     Reason = "login_failed"
	ReasonError           Reason = "error"
)

// EventSummary is one listed booking event as read from the page.
type EventSummary struct {
	Title  string
	Date   string
	Window TimeWindow
	// Index is the position in the rendered list, 1-based.
	Index int
}

type AttemptResult struct {
	Success bool
	Reason  Reason
	Event   *EventSummary
	Err     error
}

func Succeeded(r Reason) AttemptResult { return AttemptResult{Success: true, Reason: r} }

func Failed(r Reason, err error) AttemptResult {
	return AttemptResult{Reason: r, Err: err}
}

// AttemptRecord is the journal entry written after every cycle.
type AttemptRecord struct {
	RunID     uuid.UUID
	Attempt   int
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Reason    Reason
	Detail    string
}

// Outcome is what a whole run ended with.
type Outcome struct {
	Reason   Reason
	Attempts int
}
