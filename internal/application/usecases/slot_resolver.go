package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/sirupsen/logrus"
)

// Timing holds the waits of the booking sequence.
type Timing struct {
	Settle         time.Duration
	Rerender       time.Duration
	ConfirmTimeout time.Duration
	ConfirmPoll    time.Duration
	ElementTimeout time.Duration
}

// SlotMatch is the resolved state of the target slot.
type SlotMatch struct {
	State booking.SlotState
	Text  string

	book booking.Element
}

type SlotResolver struct {
	Driver    booking.Driver
	Selectors booking.Selectors
	Labels    booking.Labels
	Timing    Timing
	Log       logrus.FieldLogger
}

// Resolve walks slots in render order and classifies the first one whose time
// text mentions both window boundaries.
func (r SlotResolver) Resolve(ctx context.Context, slots []booking.Element, target booking.TimeWindow) (SlotMatch, error) {
	for _, slot := range slots {
		timeEl, ok, err := booking.First(ctx, slot, r.Selectors.SlotTime)
		if err != nil {
			return SlotMatch{}, err
		}
		if !ok {
			continue
		}
		text, err := timeEl.Text(ctx)
		if err != nil {
			return SlotMatch{}, err
		}
		text = strings.TrimSpace(text)
		if !target.MatchesText(text) {
			continue
		}
		return r.classify(ctx, slot, text)
	}
	return SlotMatch{State: booking.SlotNotFound}, nil
}

func (r SlotResolver) classify(ctx context.Context, slot booking.Element, text string) (SlotMatch, error) {
	controls, err := slot.QueryAll(ctx, r.Selectors.SlotControl)
	if err != nil {
		return SlotMatch{}, err
	}
	m := SlotMatch{State: booking.SlotUnavailable, Text: text}
	for _, c := range controls {
		label, err := c.Text(ctx)
		if err != nil {
			return SlotMatch{}, err
		}
		switch {
		case hasLabel(label, r.Labels.Cancel):
			return SlotMatch{State: booking.SlotAlreadyBooked, Text: text}, nil
		case m.book == nil && hasLabel(label, r.Labels.Book):
			m.State = booking.SlotBookable
			m.book = c
		}
	}
	return m, nil
}

// Book clicks the booking control, accepts the confirmation dialog when one shows
// up, waits for the page to settle and reports whether the slot now carries a
// cancel control.
func (r SlotResolver) Book(ctx context.Context, m SlotMatch, target booking.TimeWindow) (bool, error) {
	if m.State != booking.SlotBookable || m.book == nil {
		return false, fmt.Errorf("slot %s is %s, not bookable", target, m.State)
	}
	log := orStandard(r.Log).WithField("phase", "booking")

	if err := m.book.Click(ctx); err != nil {
		return false, fmt.Errorf("click book: %w", err)
	}
	confirmed, err := r.confirm(ctx)
	if err != nil {
		return false, err
	}
	if !confirmed {
		log.Warn("no confirmation dialog appeared, continuing")
	}

	if err := r.Driver.Sleep(ctx, r.Timing.Settle); err != nil {
		return false, err
	}
	if err := r.Driver.Sleep(ctx, r.Timing.Rerender); err != nil {
		return false, err
	}

	slots, err := r.Driver.QueryAll(ctx, r.Selectors.Slot)
	if err != nil {
		return false, fmt.Errorf("re-query slots: %w", err)
	}
	after, err := r.Resolve(ctx, slots, target)
	if err != nil {
		return false, err
	}
	log.WithField("state", after.State.String()).Debug("slot state after booking")
	return after.State == booking.SlotAlreadyBooked, nil
}

// confirm polls for the confirmation button until ConfirmTimeout has been waited
// out, looking once more at the deadline.
func (r SlotResolver) confirm(ctx context.Context) (bool, error) {
	timeout, poll := r.Timing.ConfirmTimeout, r.Timing.ConfirmPoll
	if poll <= 0 {
		poll = timeout
	}
	var waited time.Duration
	for {
		buttons, err := r.Driver.QueryAll(ctx, r.Selectors.Confirm)
		if err != nil {
			return false, fmt.Errorf("find confirmation: %w", err)
		}
		for _, b := range buttons {
			label, err := b.Text(ctx)
			if err != nil {
				return false, err
			}
			if hasLabel(label, r.Labels.Confirm) {
				if err := b.Click(ctx); err != nil {
					return false, fmt.Errorf("click confirmation: %w", err)
				}
				return true, nil
			}
		}
		if waited >= timeout {
			return false, nil
		}
		step := min(poll, timeout-waited)
		if err := r.Driver.Sleep(ctx, step); err != nil {
			return false, err
		}
		waited += step
	}
}

// ResolveAndBook runs the whole slot step on an opened event page. Driver
// failures become a failed result; only context cancellation is returned as an error.
func (r SlotResolver) ResolveAndBook(ctx context.Context, target booking.TimeWindow) (booking.AttemptResult, error) {
	log := orStandard(r.Log).WithFields(logrus.Fields{"phase": "slots", "target": target.String()})
	fail := func(err error) (booking.AttemptResult, error) {
		if ctx.Err() != nil {
			return booking.AttemptResult{}, ctx.Err()
		}
		return booking.Failed(booking.ReasonError, err), nil
	}

	if _, err := r.Driver.WaitFor(ctx, r.Selectors.Bookings, r.Timing.ElementTimeout); err != nil {
		return fail(fmt.Errorf("wait for bookings: %w", err))
	}
	slots, err := r.Driver.QueryAll(ctx, r.Selectors.Slot)
	if err != nil {
		return fail(fmt.Errorf("list slots: %w", err))
	}
	m, err := r.Resolve(ctx, slots, target)
	if err != nil {
		return fail(fmt.Errorf("resolve slot: %w", err))
	}
	log = log.WithField("state", m.State.String())

	switch m.State {
	case booking.SlotNotFound:
		log.Infof("no slot among %d matches", len(slots))
		return booking.Failed(booking.ReasonSlotNotFound, nil), nil
	case booking.SlotAlreadyBooked:
		log.Info("slot is already booked")
		return booking.Succeeded(booking.ReasonAlreadyBooked), nil
	case booking.SlotUnavailable:
		log.Info("slot has no booking control")
		return booking.Failed(booking.ReasonSlotUnavailable, nil), nil
	}

	ok, err := r.Book(ctx, m, target)
	if err != nil {
		return fail(err)
	}
	if !ok {
		log.Warn("booking was not confirmed")
		return booking.Failed(booking.ReasonNotConfirmed, nil), nil
	}
	log.Info("slot booked")
	return booking.Succeeded(booking.ReasonBooked), nil
}

// hasLabel reports whether a control's rendered text carries want, ignoring case.
func hasLabel(text, want string) bool {
	return want != "" && strings.Contains(strings.ToLower(text), strings.ToLower(want))
}

func orStandard(log logrus.FieldLogger) logrus.FieldLogger {
	if log == nil {
		return logrus.StandardLogger()
	}
	return log
}
