package booking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidWindow = errors.New("invalid time window")

// TimeWindow is a same-day range in minutes since midnight. Start is always before End.
type TimeWindow struct {
	Start int
	End   int
}

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidWindow, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad hour in %q", ErrInvalidWindow, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad minute in %q", ErrInvalidWindow, s)
	}
	return h*60 + m, nil
}

func NewWindow(start, end string) (TimeWindow, error) {
	s, err := ParseClock(start)
	if err != nil {
		return TimeWindow{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return TimeWindow{}, err
	}
	if s >= e {
		return TimeWindow{}, fmt.Errorf("%w: %s must be before %s", ErrInvalidWindow, start, end)
	}
	return TimeWindow{Start: s, End: e}, nil
}

// ParseWindow accepts "HH:MM-HH:MM" (spaces around the dash are allowed).
func ParseWindow(s string) (TimeWindow, error) {
	start, end, ok := strings.Cut(s, "-")
	if !ok {
		return TimeWindow{}, fmt.Errorf("%w: %q is not HH:MM-HH:MM", ErrInvalidWindow, s)
	}
	return NewWindow(start, end)
}

// Contains reports whether inner lies fully inside w. Equal bounds count.
func (w TimeWindow) Contains(inner TimeWindow) bool {
	return w.Start <= inner.Start && inner.End <= w.End
}

func (w TimeWindow) StartString() string { return formatClock(w.Start) }
func (w TimeWindow) EndString() string   { return formatClock(w.End) }

func (w TimeWindow) String() string {
	return w.StartString() + " - " + w.EndString()
}

// MatchesText reports whether a rendered time label mentions both boundaries.
func (w TimeWindow) MatchesText(text string) bool {
	return strings.Contains(text, w.StartString()) && strings.Contains(text, w.EndString())
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
