package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/sirupsen/logrus"
)

// EventListing is an event read from the events page together with the link that opens it.
type EventListing struct {
	booking.EventSummary

	link booking.Element
}

type EventFinder struct {
	Driver    booking.Driver
	Selectors booking.Selectors

	HomeURL    string
	Keyword    string
	DateLayout string

	PageLoadDelay  time.Duration
	EventOpenDelay time.Duration
	ElementTimeout time.Duration

	Log logrus.FieldLogger
}

// Today formats now the way event cards print their date.
func (f EventFinder) Today(now time.Time) string {
	return strings.ToLower(now.Format(f.DateLayout))
}

// OpenEventsPage goes home and follows Book > Events until the result list is rendered.
func (f EventFinder) OpenEventsPage(ctx context.Context) error {
	if err := f.Driver.Navigate(ctx, f.HomeURL); err != nil {
		return fmt.Errorf("open home: %w", err)
	}
	if err := f.Driver.Sleep(ctx, f.PageLoadDelay); err != nil {
		return err
	}
	for _, sel := range []string{f.Selectors.BookMenu, f.Selectors.EventsLink} {
		el, err := f.Driver.WaitFor(ctx, sel, f.ElementTimeout)
		if err != nil {
			return fmt.Errorf("wait for %s: %w", sel, err)
		}
		if err := el.Click(ctx); err != nil {
			return fmt.Errorf("click %s: %w", sel, err)
		}
	}
	if _, err := f.Driver.WaitFor(ctx, f.Selectors.SearchResult, f.ElementTimeout); err != nil {
		return fmt.Errorf("wait for events: %w", err)
	}
	return nil
}

// ListEvents reads every event card on the current page. Cards missing a title or a
// full date line are skipped.
func (f EventFinder) ListEvents(ctx context.Context) ([]EventListing, error) {
	log := orStandard(f.Log).WithField("phase", "searching")

	items, err := f.Driver.QueryAll(ctx, f.Selectors.EventItem)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	var out []EventListing
	for i, item := range items {
		titleEl, ok, err := booking.First(ctx, item, f.Selectors.EventTitle)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		title, err := titleEl.Text(ctx)
		if err != nil {
			return nil, err
		}
		parts, err := texts(ctx, item, f.Selectors.EventDateParts)
		if err != nil {
			return nil, err
		}
		if len(parts) < 3 {
			log.WithField("event", i+1).Debugf("skipping event with %d date parts", len(parts))
			continue
		}
		w, err := booking.NewWindow(parts[1], parts[2])
		if err != nil {
			log.WithField("event", i+1).WithError(err).Debug("skipping event with unreadable times")
			continue
		}
		link, _, err := booking.First(ctx, item, f.Selectors.EventLink)
		if err != nil {
			return nil, err
		}
		out = append(out, EventListing{
			EventSummary: booking.EventSummary{
				Title:  strings.TrimSpace(title),
				Date:   parts[0],
				Window: w,
				Index:  i + 1,
			},
			link: link,
		})
	}
	return out, nil
}

// MatchEvents keeps the events for today whose title mentions keyword and whose
// window covers the class, in page order.
func MatchEvents(events []EventListing, keyword, today string, class booking.TimeWindow) []EventListing {
	var out []EventListing
	for _, ev := range events {
		if !strings.Contains(ev.Title, keyword) || ev.Date != today {
			continue
		}
		if ev.Window.Contains(class) {
			out = append(out, ev)
		}
	}
	return out
}

// Find opens the events page and returns the first event covering class, or nil.
func (f EventFinder) Find(ctx context.Context, now time.Time, class booking.TimeWindow) (*EventListing, error) {
	if err := f.OpenEventsPage(ctx); err != nil {
		return nil, err
	}
	events, err := f.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	today := f.Today(now)
	matches := MatchEvents(events, f.Keyword, today, class)
	orStandard(f.Log).WithFields(logrus.Fields{
		"phase":   "searching",
		"date":    today,
		"listed":  len(events),
		"matches": len(matches),
	}).Info("scanned events")
	if len(matches) == 0 {
		return nil, nil
	}
	return &matches[0], nil
}

// Open clicks into the event and waits for its booking page.
func (f EventFinder) Open(ctx context.Context, ev EventListing) error {
	if ev.link == nil {
		return fmt.Errorf("event %q has no link", ev.Title)
	}
	if err := ev.link.Click(ctx); err != nil {
		return fmt.Errorf("open event %q: %w", ev.Title, err)
	}
	return f.Driver.Sleep(ctx, f.EventOpenDelay)
}

func texts(ctx context.Context, el booking.Element, selector string) ([]string, error) {
	els, err := el.QueryAll(ctx, selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(els))
	for _, e := range els {
		t, err := e.Text(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, strings.TrimSpace(t))
	}
	return out, nil
}
