package browser

import (
	"fmt"

	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/infrastructure/browser/chromedp"
	"github.com/example/gymbook/internal/infrastructure/browser/playwright"
)

// Session is a live browser page.
type Session interface {
	booking.Driver
	Close() error
}

const (
	Playwright = "playwright"
	Chromedp   = "chromedp"
)

func Open(name string, headless bool) (Session, error) {
	switch name {
	case Playwright, "":
		d, err := playwright.Open(playwright.Options{Headless: headless})
		if err != nil {
			return nil, err
		}
		return d, nil
	case Chromedp:
		d, err := chromedp.Open(chromedp.Options{Headless: headless})
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", name)
	}
}
