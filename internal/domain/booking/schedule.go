package booking

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DaySchedule maps a weekday to the class window booked on that day.
// It is built once at startup and never mutated.
type DaySchedule struct {
	days map[time.Weekday]TimeWindow
}

func NewDaySchedule(days map[time.Weekday]TimeWindow) DaySchedule {
	cp := make(map[time.Weekday]TimeWindow, len(days))
	for d, w := range days {
		cp[d] = w
	}
	return DaySchedule{days: cp}
}

// DefaultSchedule is the class timetable the booker ships with. Saturday has no class.
func DefaultSchedule() DaySchedule {
	must := func(s string) TimeWindow {
		w, err := ParseWindow(s)
		if err != nil {
			panic(err)
		}
		return w
	}
	return NewDaySchedule(map[time.Weekday]TimeWindow{
		time.Monday:    must("18:00-19:30"),
		time.Tuesday:   must("15:00-16:30"),
		time.Wednesday: must("10:30-12:00"),
		time.Thursday:  must("19:30-21:00"),
		time.Friday:    must("12:00-13:00"),
		time.Sunday:    must("21:00-22:30"),
	})
}

// ParseSchedule builds a schedule from day-name keys ("tuesday", "tue") and
// "HH:MM-HH:MM" values.
func ParseSchedule(raw map[string]string) (DaySchedule, error) {
	days := make(map[time.Weekday]TimeWindow, len(raw))
	for name, val := range raw {
		d, err := ParseWeekday(name)
		if err != nil {
			return DaySchedule{}, err
		}
		if _, dup := days[d]; dup {
			return DaySchedule{}, fmt.Errorf("schedule: %s listed twice", d)
		}
		w, err := ParseWindow(val)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("schedule %s: %w", name, err)
		}
		days[d] = w
	}
	return NewDaySchedule(days), nil
}

func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if s == full || (len(s) == 3 && s == full[:3]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

func (s DaySchedule) Lookup(d time.Weekday) (TimeWindow, bool) {
	w, ok := s.days[d]
	return w, ok
}

func (s DaySchedule) Len() int { return len(s.days) }

// Days returns the scheduled weekdays, Monday first.
func (s DaySchedule) Days() []time.Weekday {
	out := make([]time.Weekday, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return mondayIndex(out[i]) < mondayIndex(out[j]) })
	return out
}

func mondayIndex(d time.Weekday) int { return (int(d) + 6) % 7 }
