package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/example/gymbook/internal/domain/booking"
	"github.com/example/gymbook/internal/internaltypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><body>
<ul id="list">
  <li class="item"><span>one</span><button>Go</button></li>
  <li class="item"><span>two</span></li>
</ul>
<input id="name">
</body></html>`

func TestQueryAndScopedQuery(t *testing.T) {
	ctx := context.Background()
	d, err := Load(strings.NewReader(page))
	require.NoError(t, err)

	items, err := d.QueryAll(ctx, "li.item")
	require.NoError(t, err)
	require.Len(t, items, 2)

	spans, err := items[1].QueryAll(ctx, "span")
	require.NoError(t, err)
	require.Len(t, spans, 1)
	text, err := spans[0].Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "two", text)

	buttons, err := items[1].QueryAll(ctx, "button")
	require.NoError(t, err)
	assert.Empty(t, buttons)
}

func TestWaitFor(t *testing.T) {
	ctx := context.Background()
	d, err := Load(strings.NewReader(page))
	require.NoError(t, err)

	_, err = d.WaitFor(ctx, "#list", time.Second)
	assert.NoError(t, err)

	_, err = d.WaitFor(ctx, "#missing", time.Second)
	assert.ErrorIs(t, err, booking.ErrElementTimeout)
}

func TestClick_ReadOnlyWithoutHook(t *testing.T) {
	ctx := context.Background()
	d, err := Load(strings.NewReader(page))
	require.NoError(t, err)

	btn, err := d.WaitFor(ctx, "button", time.Second)
	require.NoError(t, err)
	assert.ErrorIs(t, btn.Click(ctx), internaltypes.ErrReadOnly)
	assert.Empty(t, d.Clicks())
}

func TestClick_HookSwapsPage(t *testing.T) {
	ctx := context.Background()
	d, err := Load(strings.NewReader(page))
	require.NoError(t, err)
	d.OnClick = func(d *Driver, s *goquery.Selection) error {
		return d.SetHTML(`<p id="done">ok</p>`)
	}

	btn, err := d.WaitFor(ctx, "button", time.Second)
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))

	assert.Equal(t, []string{"Go"}, d.Clicks())
	_, err = d.WaitFor(ctx, "#done", time.Second)
	assert.NoError(t, err)
}

func TestNavigateFillSleepScreenshot(t *testing.T) {
	ctx := context.Background()
	d := New()
	d.Route("https://portal/login", page)

	assert.Error(t, d.Navigate(ctx, "https://portal/other"))
	require.NoError(t, d.Navigate(ctx, "https://portal/login"))
	assert.Equal(t, "https://portal/login", d.URL())

	require.NoError(t, d.Fill(ctx, "#name", "student"))
	assert.Equal(t, "student", d.Filled("#name"))
	assert.ErrorIs(t, d.Fill(ctx, "#nope", "x"), booking.ErrElementTimeout)

	require.NoError(t, d.Sleep(ctx, 2*time.Second))
	assert.Equal(t, []time.Duration{2 * time.Second}, d.Sleeps())

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, d.Screenshot(ctx, path))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `value="student"`)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := New()
	_, err := d.QueryAll(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, d.Sleep(ctx, time.Second), context.Canceled)
}
