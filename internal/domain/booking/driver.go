package booking

import (
	"context"
	"errors"
	"time"
)

// ErrElementTimeout is returned by Driver.WaitFor when nothing matched in time.
var ErrElementTimeout = errors.New("timed out waiting for element")

// Element is a rendered node on the current page.
type Element interface {
	Text(ctx context.Context) (string, error)
	// QueryAll finds descendants of this element, in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Click(ctx context.Context) error
}

// Driver is the browser session the booker drives. Implementations own exactly one page.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (Element, error)
	QueryAll(ctx context.Context, selector string) ([]Element, error)
	Fill(ctx context.Context, selector, value string) error
	Sleep(ctx context.Context, d time.Duration) error
	Screenshot(ctx context.Context, path string) error
}

// First returns the first descendant of el matching selector.
func First(ctx context.Context, el Element, selector string) (Element, bool, error) {
	els, err := el.QueryAll(ctx, selector)
	if err != nil || len(els) == 0 {
		return nil, false, err
	}
	return els[0], true, nil
}
