package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/gymbook/internal/application/usecases"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFinder_Today(t *testing.T) {
	f := newFinder(nil)
	assert.Equal(t, "25-nov-2025", f.Today(tuesday))
}

func TestListEvents_SkipsMalformed(t *testing.T) {
	d := load(t, eventsPage(
		event{"Fitnes Tuesday", "25-nov-2025", "14:30", "17:00"},
		event{"Fitnes broken", "25-nov-2025", "late", "17:00"},
		event{"Fitnes inverted", "25-nov-2025", "17:00", "14:30"},
	)+`<div class="list-group-item"><h2>Fitnes no date</h2></div>`)

	events, err := newFinder(d).ListEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Fitnes Tuesday", events[0].Title)
	assert.Equal(t, "25-nov-2025", events[0].Date)
	assert.Equal(t, "14:30 - 17:00", events[0].Window.String())
	assert.Equal(t, 1, events[0].Index)
}

func TestMatchEvents(t *testing.T) {
	d := load(t, eventsPage(
		event{"Joga Tuesday", "25-nov-2025", "14:30", "17:00"},
		event{"Fitnes Monday", "24-nov-2025", "14:30", "17:00"},
		event{"Fitnes short", "25-nov-2025", "15:30", "16:30"},
		event{"Fitnes Tuesday", "25-nov-2025", "14:30", "17:00"},
		event{"Fitnes Tuesday late", "25-nov-2025", "15:00", "16:30"},
	))
	events, err := newFinder(d).ListEvents(context.Background())
	require.NoError(t, err)

	got := usecases.MatchEvents(events, "Fitnes", "25-nov-2025", class)
	require.Len(t, got, 2)
	assert.Equal(t, "Fitnes Tuesday", got[0].Title)
	assert.Equal(t, 4, got[0].Index)
	assert.Equal(t, "Fitnes Tuesday late", got[1].Title)
}

func TestFind_NavigatesMenus(t *testing.T) {
	d := snapshot.New()
	d.Route(homeURL, eventsPage(event{"Fitnes Tuesday", "25-nov-2025", "14:30", "17:00"}))
	d.OnClick = func(*snapshot.Driver, *goquery.Selection) error { return nil }
	f := newFinder(d)

	ev, err := f.Find(context.Background(), tuesday, class)
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "Fitnes Tuesday", ev.Title)
	assert.Equal(t, []string{"Book", "Events"}, d.Clicks())
	assert.Equal(t, []time.Duration{f.PageLoadDelay}, d.Sleeps())

	require.NoError(t, f.Open(context.Background(), *ev))
	assert.Equal(t, []string{"Book", "Events", "Details"}, d.Clicks())
}

func TestFind_NothingPublished(t *testing.T) {
	d := snapshot.New()
	d.Route(homeURL, eventsPage(event{"Fitnes Tuesday", "25-nov-2025", "14:30", "17:00"}))
	d.OnClick = func(*snapshot.Driver, *goquery.Selection) error { return nil }

	wednesday := tuesday.AddDate(0, 0, 1)
	ev, err := newFinder(d).Find(context.Background(), wednesday, booking.TimeWindow{Start: 630, End: 720})
	require.NoError(t, err)
	assert.Nil(t, ev)
}

func TestFind_MissingMenu(t *testing.T) {
	d := snapshot.New()
	d.Route(homeURL, `<html><body>logged out</body></html>`)

	_, err := newFinder(d).Find(context.Background(), tuesday, class)
	assert.ErrorIs(t, err, booking.ErrElementTimeout)
}
