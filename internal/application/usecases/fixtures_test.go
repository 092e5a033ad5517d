package usecases_test

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser/snapshot"
	"github.com/example/gymbook/internal/infrastructure/logger"
)

const (
	homeURL  = "https://portal.test/home"
	loginURL = "https://portal.test/login"
)

// tuesday is 25 Nov 2025.
var tuesday = time.Date(2025, time.November, 25, 6, 0, 5, 0, time.UTC)

var timing = usecases.Timing{
	Settle:         2 * time.Second,
	Rerender:       1500 * time.Millisecond,
	ConfirmTimeout: time.Second,
	ConfirmPoll:    250 * time.Millisecond,
	ElementTimeout: 10 * time.Second,
}

type event struct {
	title, date, start, end string
}

func eventsPage(events ...event) string {
	var b strings.Builder
	b.WriteString(`<html><body><nav>
<a class="nav-link dropdown-toggle" title="Book" href="#">Book</a>
<a class="nav-link" title="Events" href="/menu/user/events/book">Events</a>
</nav><div id="search-result">`)
	for i, e := range events {
		fmt.Fprintf(&b, `<div class="list-group-item"><h2>%s</h2>
<div class="_event-date-wrapper"><strong>%s</strong> <strong>%s</strong> - <strong>%s</strong></div>
<a href="/event/%d">Details</a></div>`, e.title, e.date, e.start, e.end, i+1)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

type slot struct {
	time    string
	buttons []string
}

func slotsPage(modal bool, slots ...slot) string {
	var b strings.Builder
	b.WriteString(`<html><body><div id="bookings">`)
	for _, s := range slots {
		fmt.Fprintf(&b, `<div class="row no-gutters align-items-center"><div class="col"><p class="font-weight-semibold mb-0">%s</p></div><div class="col-auto">`, s.time)
		for _, label := range s.buttons {
			fmt.Fprintf(&b, `<button class="btn btn-primary">%s</button>`, label)
		}
		b.WriteString(`</div></div>`)
	}
	b.WriteString(`</div>`)
	if modal {
		b.WriteString(`<div class="modal"><button class="btn btn-secondary">No</button><button class="btn btn-danger">Yes</button></div>`)
	}
	b.WriteString(`</body></html>`)
	return b.String()
}

func tuesdaySlots(modal bool, target ...string) string {
	return slotsPage(modal,
		slot{time: "13:00 - 14:30", buttons: []string{"Book"}},
		slot{time: "15:00 - 16:30", buttons: target},
		slot{time: "16:30 - 18:00", buttons: []string{"Book"}},
	)
}

// portal reacts to clicks the way the booking site does for a bookable Tuesday slot.
func portal(d *snapshot.Driver, s *goquery.Selection) error {
	switch label := strings.TrimSpace(s.Text()); {
	case s.Is("a") && label == "Details":
		return d.SetHTML(tuesdaySlots(false, "Book"))
	case s.Is("button.btn-primary") && label == "Book":
		return d.SetHTML(tuesdaySlots(true, "Book"))
	case s.Is("button") && label == "Yes":
		return d.SetHTML(tuesdaySlots(false, "Cancel"))
	}
	return nil
}

func newResolver(d booking.Driver) usecases.SlotResolver {
	return usecases.SlotResolver{
		Driver:    d,
		Selectors: booking.DefaultSelectors(),
		Labels:    booking.DefaultLabels(),
		Timing:    timing,
		Log:       logger.Discard(),
	}
}

func newFinder(d booking.Driver) usecases.EventFinder {
	return usecases.EventFinder{
		Driver:         d,
		Selectors:      booking.DefaultSelectors(),
		HomeURL:        homeURL,
		Keyword:        "Fitnes",
		DateLayout:     "02-Jan-2006",
		PageLoadDelay:  2 * time.Second,
		EventOpenDelay: 3 * time.Second,
		ElementTimeout: 10 * time.Second,
		Log:            logger.Discard(),
	}
}
