package usecases

import (
	"context"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/sirupsen/logrus"
)

// BookClass is one booking cycle: find today's event, open it and book the class slot.
type BookClass struct {
	Schedule booking.DaySchedule
	Finder   EventFinder
	Resolver SlotResolver
	Log      logrus.FieldLogger
}

// Execute returns a failed result for anything the next cycle might fix. The error
// is non-nil only when ctx is done.
func (u BookClass) Execute(ctx context.Context, now time.Time) (booking.AttemptResult, error) {
	class, ok := u.Schedule.Lookup(now.Weekday())
	if !ok {
		return booking.Succeeded(booking.ReasonNoClassToday), nil
	}
	log := orStandard(u.Log).WithFields(logrus.Fields{"phase": "searching", "class": class.String()})

	ev, err := u.Finder.Find(ctx, now, class)
	if err != nil {
		if ctx.Err() != nil {
			return booking.AttemptResult{}, ctx.Err()
		}
		return booking.Failed(booking.ReasonError, err), nil
	}
	if ev == nil {
		log.Info("no event covers the class yet")
		return booking.Failed(booking.ReasonEventNotFound, nil), nil
	}
	summary := ev.EventSummary
	log.WithFields(logrus.Fields{"event": summary.Title, "window": summary.Window.String()}).Info("opening event")

	if err := u.Finder.Open(ctx, *ev); err != nil {
		if ctx.Err() != nil {
			return booking.AttemptResult{}, ctx.Err()
		}
		res := booking.Failed(booking.ReasonError, err)
		res.Event = &summary
		return res, nil
	}
	res, err := u.Resolver.ResolveAndBook(ctx, class)
	if err != nil {
		return booking.AttemptResult{}, err
	}
	res.Event = &summary
	return res, nil
}
