package booking

import (
	"fmt"
	"strings"
)

// Selectors locate portal elements. They are plain CSS so every Driver backend
// understands them; text matching is done against Labels instead.
type Selectors struct {
	LoginUsername string `yaml:"login_username"`
	LoginPassword string `yaml:"login_password"`
	LoginSubmit   string `yaml:"login_submit"`
	// LoginFailure still matching after submit means the portal kept us on the login form.
	LoginFailure string `yaml:"login_failure"`

	BookMenu     string `yaml:"book_menu"`
	EventsLink   string `yaml:"events_link"`
	SearchResult string `yaml:"search_result"`

	EventItem      string `yaml:"event_item"`
	EventTitle     string `yaml:"event_title"`
	EventDateParts string `yaml:"event_date_parts"`
	EventLink      string `yaml:"event_link"`

	Bookings    string `yaml:"bookings"`
	Slot        string `yaml:"slot"`
	SlotTime    string `yaml:"slot_time"`
	SlotControl string `yaml:"slot_control"`
	Confirm     string `yaml:"confirm"`
}

// Labels are the button captions that tell slot controls apart.
type Labels struct {
	Book    string `yaml:"book"`
	Cancel  string `yaml:"cancel"`
	Confirm string `yaml:"confirm"`
}

func DefaultSelectors() Selectors {
	return Selectors{
		LoginUsername: "input#mat-input-0",
		LoginPassword: "input#mat-input-1",
		LoginSubmit:   "button.t_440877_login",
		LoginFailure:  "button.t_440877_login",

		BookMenu:     `a.nav-link.dropdown-toggle[title="Book"]`,
		EventsLink:   `a.nav-link[title="Events"][href="/menu/user/events/book"]`,
		SearchResult: "#search-result",

		EventItem:      ".list-group-item",
		EventTitle:     "h2",
		EventDateParts: "._event-date-wrapper strong",
		EventLink:      "a",

		Bookings:    "#bookings",
		Slot:        "div.row.no-gutters.align-items-center",
		SlotTime:    "p.font-weight-semibold.mb-0",
		SlotControl: "button.btn.btn-primary",
		Confirm:     "button",
	}
}

func DefaultLabels() Labels {
	return Labels{Book: "Book", Cancel: "Cancel", Confirm: "Yes"}
}

// Validate rejects empty selectors. LoginFailure may be empty to skip the
// rejected-login check.
func (s Selectors) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"login_username", s.LoginUsername},
		{"login_password", s.LoginPassword},
		{"login_submit", s.LoginSubmit},
		{"book_menu", s.BookMenu},
		{"events_link", s.EventsLink},
		{"search_result", s.SearchResult},
		{"event_item", s.EventItem},
		{"event_title", s.EventTitle},
		{"event_date_parts", s.EventDateParts},
		{"event_link", s.EventLink},
		{"bookings", s.Bookings},
		{"slot", s.Slot},
		{"slot_time", s.SlotTime},
		{"slot_control", s.SlotControl},
		{"confirm", s.Confirm},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("selector %s is empty", f.name)
		}
	}
	return nil
}

// Validate rejects empty labels; an empty caption would match every control.
func (l Labels) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"book", l.Book},
		{"cancel", l.Cancel},
		{"confirm", l.Confirm},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("label %s is empty", f.name)
		}
	}
	if strings.EqualFold(l.Book, l.Cancel) {
		return fmt.Errorf("labels book and cancel must differ")
	}
	return nil
}
