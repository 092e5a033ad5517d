package booking_test

import (
	"testing"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, start, end string) booking.TimeWindow {
	t.Helper()
	w, err := booking.NewWindow(start, end)
	require.NoError(t, err)
	return w
}

func TestParseClock(t *testing.T) {
	m, err := booking.ParseClock("15:30")
	require.NoError(t, err)
	assert.Equal(t, 15*60+30, m)

	m, err = booking.ParseClock(" 06:05 ")
	require.NoError(t, err)
	assert.Equal(t, 365, m)

	for _, bad := range []string{"", "1530", "24:00", "12:60", "ab:00", "12:xx"} {
		_, err := booking.ParseClock(bad)
		assert.ErrorIs(t, err, booking.ErrInvalidWindow, bad)
	}
}

func TestNewWindow_RejectsEmptyOrInverted(t *testing.T) {
	_, err := booking.NewWindow("16:30", "15:00")
	assert.ErrorIs(t, err, booking.ErrInvalidWindow)

	_, err = booking.NewWindow("15:00", "15:00")
	assert.ErrorIs(t, err, booking.ErrInvalidWindow)
}

func TestParseWindow(t *testing.T) {
	w, err := booking.ParseWindow("15:00 - 16:30")
	require.NoError(t, err)
	assert.Equal(t, booking.TimeWindow{Start: 900, End: 990}, w)
	assert.Equal(t, "15:00", w.StartString())
	assert.Equal(t, "16:30", w.EndString())
	assert.Equal(t, "15:00 - 16:30", w.String())

	_, err = booking.ParseWindow("15:00")
	assert.ErrorIs(t, err, booking.ErrInvalidWindow)
}

func TestContains_IsReflexive(t *testing.T) {
	for _, w := range []booking.TimeWindow{
		mustWindow(t, "00:00", "00:01"),
		mustWindow(t, "15:00", "16:30"),
		mustWindow(t, "21:00", "23:59"),
	} {
		assert.True(t, w.Contains(w), w.String())
	}
}

func TestContains(t *testing.T) {
	event := mustWindow(t, "14:30", "17:00")

	tests := []struct {
		name  string
		class booking.TimeWindow
		want  bool
	}{
		{"enclosed", mustWindow(t, "15:00", "16:30"), true},
		{"same start", mustWindow(t, "14:30", "16:00"), true},
		{"same end", mustWindow(t, "16:00", "17:00"), true},
		{"starts before event", mustWindow(t, "14:00", "16:00"), false},
		{"ends after event", mustWindow(t, "16:00", "17:30"), false},
		{"wider than event", mustWindow(t, "14:00", "18:00"), false},
		{"disjoint", mustWindow(t, "18:00", "19:30"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, event.Contains(tt.class))
		})
	}
}

func TestMatchesText(t *testing.T) {
	w := mustWindow(t, "15:00", "16:30")
	assert.True(t, w.MatchesText("15:00 - 16:30"))
	assert.True(t, w.MatchesText("Termin 15:00 – 16:30 (Fitnes)"))
	assert.False(t, w.MatchesText("15:00 - 16:00"))
	assert.False(t, w.MatchesText("16:30 - 18:00"))
}
