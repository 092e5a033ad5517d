package chromedp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/example/gymbook/internal/clock"
	"github.com/example/gymbook/internal/domain/booking"
)

// Driver drives a local Chrome over the DevTools protocol.
type Driver struct {
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
}

type Options struct {
	Headless bool
	// ExecPath overrides Chrome discovery.
	ExecPath string
}

func Open(opts Options) (*Driver, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("start chrome: %w", err)
	}
	return &Driver{browserCtx: browserCtx, cancelBrowser: cancelBrowser, cancelAlloc: cancelAlloc}, nil
}

func (d *Driver) Close() error {
	d.cancelBrowser()
	d.cancelAlloc()
	return nil
}

// run executes actions on the browser tab, aborting when the caller's ctx is done.
func (d *Driver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithCancel(d.browserCtx)
	defer cancel()
	if timeout > 0 {
		var cancelTimeout context.CancelFunc
		opCtx, cancelTimeout = context.WithTimeout(opCtx, timeout)
		defer cancelTimeout()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, 0, chromedp.Navigate(url))
}

func (d *Driver) WaitFor(ctx context.Context, selector string, timeout time.Duration) (booking.Element, error) {
	var nodes []*cdp.Node
	err := d.run(ctx, timeout, chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.NodeVisible))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", booking.ErrElementTimeout, selector)
		}
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", booking.ErrElementTimeout, selector)
	}
	return element{d: d, n: nodes[0]}, nil
}

func (d *Driver) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, 0, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	return d.wrap(nodes), nil
}

func (d *Driver) Fill(ctx context.Context, selector, value string) error {
	return d.run(ctx, 0,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (d *Driver) Sleep(ctx context.Context, dur time.Duration) error {
	return clock.Sleep(ctx, dur)
}

func (d *Driver) Screenshot(ctx context.Context, path string) error {
	var buf []byte
	if err := d.run(ctx, 0, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

func (d *Driver) wrap(nodes []*cdp.Node) []booking.Element {
	out := make([]booking.Element, len(nodes))
	for i, n := range nodes {
		out[i] = element{d: d, n: n}
	}
	return out
}

type element struct {
	d *Driver
	n *cdp.Node
}

func (e element) Text(ctx context.Context) (string, error) {
	var text string
	err := e.d.run(ctx, 0, chromedp.JavascriptAttribute([]cdp.NodeID{e.n.NodeID}, "innerText", &text, chromedp.ByNodeID))
	return text, err
}

func (e element) QueryAll(ctx context.Context, selector string) ([]booking.Element, error) {
	var nodes []*cdp.Node
	err := e.d.run(ctx, 0, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.FromNode(e.n), chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return e.d.wrap(nodes), nil
}

func (e element) Click(ctx context.Context) error {
	return e.d.run(ctx, 0, chromedp.MouseClickNode(e.n))
}

var _ booking.Driver = (*Driver)(nil)
