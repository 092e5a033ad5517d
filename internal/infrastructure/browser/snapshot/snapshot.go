// Package snapshot is a Driver over saved HTML. It never talks to a network and
// only changes page state through an explicit click hook.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/internaltypes"
)

// ClickFunc reacts to a click on s. It may replace the page with SetHTML.
type ClickFunc func(d *Driver, s *goquery.Selection) error

type Driver struct {
	doc    *goquery.Document
	url    string
	routes map[string]string

	// OnClick is consulted for every click. Without it clicks fail with ErrReadOnly.
	OnClick ClickFunc

	clicks []string
	fills  map[string]string
	sleeps []time.Duration
}

func New() *Driver {
	d := &Driver{routes: map[string]string{}, fills: map[string]string{}}
	_ = d.SetHTML("<html><body></body></html>")
	return d
}

func Load(r io.Reader) (*Driver, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	d := New()
	d.doc = doc
	return d, nil
}

func LoadFile(path string) (*Driver, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// SetHTML replaces the current page. Elements from the old page keep pointing at it.
func (d *Driver) SetHTML(html string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}
	d.doc = doc
	return nil
}

// Route serves html when url is navigated to.
func (d *Driver) Route(url, html string) { d.routes[url] = html }

func (d *Driver) URL() string                   { return d.url }
func (d *Driver) Clicks() []string              { return append([]string(nil), d.clicks...) }
func (d *Driver) Sleeps() []time.Duration       { return append([]time.Duration(nil), d.sleeps...) }
func (d *Driver) Filled(selector string) string { return d.fills[selector] }

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	html, ok := d.routes[url]
	if !ok {
		return fmt.Errorf("no snapshot routed for %s", url)
	}
	d.url = url
	return d.SetHTML(html)
}

func (d *Driver) WaitFor(ctx context.Context, selector string, _ time.Duration) (booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", booking.ErrElementTimeout, selector)
	}
	return element{d: d, s: s.First()}, nil
}

func (d *Driver) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.wrap(d.doc.Find(selector)), nil
}

func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := d.doc.Find(selector)
	if s.Length() == 0 {
		return fmt.Errorf("%w: %s", booking.ErrElementTimeout, selector)
	}
	s.First().SetAttr("value", value)
	d.fills[selector] = value
	return nil
}

// Sleep records dur without waiting.
func (d *Driver) Sleep(ctx context.Context, dur time.Duration) error {
	d.sleeps = append(d.sleeps, dur)
	return ctx.Err()
}

// Screenshot writes the current markup to path.
func (d *Driver) Screenshot(_ context.Context, path string) error {
	html, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}

func (d *Driver) wrap(s *goquery.Selection) []booking.Element {
	out := make([]booking.Element, 0, s.Length())
	s.Each(func(_ int, n *goquery.Selection) {
		out = append(out, element{d: d, s: n})
	})
	return out
}

type element struct {
	d *Driver
	s *goquery.Selection
}

func (e element) Text(ctx context.Context) (string, error) {
	return e.s.Text(), ctx.Err()
}

func (e element) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.d.wrap(e.s.Find(selector)), nil
}

func (e element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.d.OnClick == nil {
		return internaltypes.ErrReadOnly
	}
	e.d.clicks = append(e.d.clicks, strings.TrimSpace(e.s.Text()))
	return e.d.OnClick(e.d, e.s)
}

var _ booking.Driver = (*Driver)(nil)
