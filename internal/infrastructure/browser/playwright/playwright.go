package playwright

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/gymbook/internal/clock"
	"github.com/example/gymbook/internal/domain/booking"
	pw "github.com/playwright-community/playwright-go"
)

// Driver runs a single Chromium page through the Playwright server.
// Playwright calls are not cancellable, so ctx is checked between them.
type Driver struct {
	pw      *pw.Playwright
	browser pw.Browser
	page    pw.Page
}

type Options struct {
	Headless bool
}

func Open(opts Options) (*Driver, error) {
	p, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	browser, err := p.Chromium.Launch(pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(opts.Headless),
	})
	if err != nil {
		_ = p.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = p.Stop()
		return nil, fmt.Errorf("new page: %w", err)
	}
	return &Driver{pw: p, browser: browser, page: page}, nil
}

// Install downloads the Chromium build Playwright expects.
func Install() error {
	return pw.Install(&pw.RunOptions{Browsers: []string{"chromium"}})
}

func (d *Driver) Close() error {
	return errors.Join(d.browser.Close(), d.pw.Stop())
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Goto(url, pw.PageGotoOptions{WaitUntil: pw.WaitUntilStateLoad})
	return err
}

func (d *Driver) WaitFor(ctx context.Context, selector string, timeout time.Duration) (booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	el, err := d.page.WaitForSelector(selector, pw.PageWaitForSelectorOptions{
		Timeout: pw.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		if errors.Is(err, pw.ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", booking.ErrElementTimeout, selector)
		}
		return nil, err
	}
	return element{el}, nil
}

func (d *Driver) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrap(els), nil
}

func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.page.Fill(selector, value)
}

func (d *Driver) Sleep(ctx context.Context, dur time.Duration) error {
	return clock.Sleep(ctx, dur)
}

func (d *Driver) Screenshot(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.page.Screenshot(pw.PageScreenshotOptions{
		Path:     pw.String(path),
		FullPage: pw.Bool(true),
	})
	return err
}

type element struct {
	h pw.ElementHandle
}

func (e element) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return e.h.InnerText()
}

func (e element) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els, err := e.h.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	return wrap(els), nil
}

func (e element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return e.h.Click()
}

func wrap(els []pw.ElementHandle) []booking.Element {
	out := make([]booking.Element, len(els))
	for i, el := range els {
		out[i] = element{el}
	}
	return out
}

var _ booking.Driver = (*Driver)(nil)
