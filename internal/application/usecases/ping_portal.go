package usecases

import (
	"context"
	"fmt"
)

// PingPortal logs in and opens the events list without booking anything.
type PingPortal struct {
	Login  Login
	Finder EventFinder
}

// Execute returns how many events are listed.
func (u PingPortal) Execute(ctx context.Context) (int, error) {
	if u.Login.Driver == nil || u.Finder.Driver == nil {
		return 0, fmt.Errorf("driver is nil")
	}
	if err := u.Login.Execute(ctx); err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}
	if err := u.Finder.OpenEventsPage(ctx); err != nil {
		return 0, err
	}
	events, err := u.Finder.ListEvents(ctx)
	if err != nil {
		return 0, err
	}
	return len(events), nil
}
